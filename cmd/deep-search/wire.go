// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/deep-search/internal/container"
	"github.com/pdiddy/deep-search/internal/convert"
	"github.com/pdiddy/deep-search/internal/fetch"
	"github.com/pdiddy/deep-search/internal/research"
	"github.com/pdiddy/deep-search/internal/search"
	"github.com/pdiddy/deep-search/internal/summarize"
	"github.com/pdiddy/deep-search/pkg/types"
)

func newProvider(cfg types.SearchConfig) (search.Provider, error) {
	switch cfg.Provider {
	case "", "tavily":
		return &search.TavilyProvider{
			Client:    &http.Client{Timeout: cfg.Timeout},
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			UserAgent: cfg.UserAgent,
		}, nil
	default:
		return nil, fmt.Errorf("unknown search provider %q: only tavily is supported", cfg.Provider)
	}
}

// newTool builds the full pipeline from cfg.
func newTool(ctx context.Context, cfg types.Config) (*research.Tool, error) {
	provider, err := newProvider(cfg.Search)
	if err != nil {
		return nil, err
	}

	var rt container.Runtime
	if cfg.Convert.Backend == types.ConvertMarkitdown {
		rt, err = container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
	}
	conv, err := convert.New(ctx, cfg.Convert, rt)
	if err != nil {
		return nil, err
	}

	model, err := summarize.NewModel(cfg.Summarize, &http.Client{}, log)
	if err != nil {
		return nil, err
	}

	proc := research.NewProcessor(
		fetch.New(nil, cfg.Fetch, log),
		conv,
		summarize.New(model, cfg.Summarize.Timeout, log),
		log,
	)
	return research.NewTool(provider, proc, log), nil
}
