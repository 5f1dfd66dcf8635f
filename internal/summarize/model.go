// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/deep-search/pkg/types"
)

// NewModel builds the backend named in cfg and wraps it in a Breaker.
func NewModel(cfg types.SummarizeConfig, client *http.Client, logger *slog.Logger) (Model, error) {
	var m Model
	switch cfg.Backend {
	case "", types.SummarizeOpenAI:
		m = &OpenAI{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}
	case types.SummarizeAnthropic:
		m = &Anthropic{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}
	case types.SummarizeOllama:
		o, err := NewOllama(cfg.BaseURL, cfg.Model, client)
		if err != nil {
			return nil, err
		}
		m = o
	default:
		return nil, fmt.Errorf("unknown summarize backend %q: use openai, anthropic, or ollama", cfg.Backend)
	}
	return NewBreaker(m, cfg.Breaker, logger), nil
}
