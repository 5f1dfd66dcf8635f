// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out outbound requests so consecutive calls to Do are at least
// Delay apart. A zero delay disables pacing. Pacer never retries: each call
// to Do issues exactly one request.
type Pacer struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewPacer wraps client. When client is nil http.DefaultClient is used.
func NewPacer(client *http.Client, delay time.Duration) *Pacer {
	if client == nil {
		client = http.DefaultClient
	}
	p := &Pacer{client: client}
	if delay > 0 {
		p.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return p
}

// Client returns the wrapped client.
func (p *Pacer) Client() *http.Client { return p.client }

// Do waits for the pacing slot and sends req. If ctx is cancelled while
// waiting, ctx.Err() is returned and no request is sent.
func (p *Pacer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return p.client.Do(req.WithContext(ctx))
}

// NewClient builds an *http.Client with the given timeout and a bounded
// redirect chain.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

const maxRedirects = 10
