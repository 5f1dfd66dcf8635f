// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search calls a third-party web-search API and returns its ranked
// results unchanged. Providers are pluggable behind the Provider interface.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/deep-search/pkg/types"
)

// Provider searches a single web-search API. Each API (Tavily, ...)
// implements this interface.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error)
}

// ProviderError reports a failed call to the upstream search API: a transport
// failure, a non-200 status (bad key, rate limit, outage), or an undecodable
// body. It is never recovered inside this module.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search provider %s: HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("search provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err carries a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Search validates the query and options, then makes exactly one call to p.
// Provider failures are returned as-is; there is no retry.
func Search(ctx context.Context, p Provider, query string, opts types.SearchOptions, logger *slog.Logger) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty: provide a search query")
	}
	if p == nil {
		return nil, fmt.Errorf("no search provider configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxResults < 1 {
		return nil, fmt.Errorf("max_results must be at least 1, got %d", opts.MaxResults)
	}
	if _, err := types.ParseTopic(string(opts.Topic)); err != nil {
		return nil, err
	}
	if opts.Topic == "" {
		opts.Topic = types.TopicGeneral
	}

	results, err := p.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	// Some providers ignore max_results on small plans.
	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}

	logger.Debug("search completed",
		"provider", p.Name(),
		"query", query,
		"topic", string(opts.Topic),
		"results", len(results),
	)
	return results, nil
}
