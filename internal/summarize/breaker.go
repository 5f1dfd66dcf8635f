// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pdiddy/deep-search/pkg/types"
)

const (
	defaultBreakerMaxFailures uint32 = 5
	defaultBreakerTimeout            = 30 * time.Second
)

// Breaker wraps a Model with a circuit breaker. After MaxFailures
// consecutive errors calls fail fast until the open timeout elapses.
type Breaker struct {
	inner   Model
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreaker wraps inner. Zero config values take defaults.
func NewBreaker(inner Model, cfg types.BreakerConfig, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "summarize:" + inner.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return &Breaker{inner: inner, breaker: cb}
}

// Name returns the wrapped model's name.
func (b *Breaker) Name() string { return b.inner.Name() }

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.breaker.State() }

// Complete routes the call through the breaker.
func (b *Breaker) Complete(ctx context.Context, prompt string) (string, error) {
	reply, err := b.breaker.Execute(func() (string, error) {
		return b.inner.Complete(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("model %q circuit open: %w", b.inner.Name(), err)
	}
	return reply, err
}
