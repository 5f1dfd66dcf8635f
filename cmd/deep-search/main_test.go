// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-search/internal/search"
	"github.com/pdiddy/deep-search/internal/secrets"
	"github.com/pdiddy/deep-search/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	loadedSecrets = map[string]string{
		secrets.TavilyAPIKey: "tvly-secret",
		secrets.OpenAIAPIKey: "sk-secret",
	}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "tavily", cfg.Search.Provider)
	assert.Equal(t, "tvly-secret", cfg.Search.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(5<<20), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, types.ConvertHTML, cfg.Convert.Backend)
	assert.Equal(t, types.SummarizeOpenAI, cfg.Summarize.Backend)
	assert.Equal(t, "sk-secret", cfg.Summarize.APIKey)
	assert.Equal(t, 60*time.Second, cfg.Summarize.Timeout)
	assert.Equal(t, uint32(5), cfg.Summarize.Breaker.MaxFailures)
	assert.Equal(t, "default", cfg.Store.Session)
}

func TestLoadConfigAnthropicKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	viper.Set("summarize.backend", "anthropic")
	t.Cleanup(func() { viper.Set("summarize.backend", string(types.SummarizeOpenAI)) })
	loadedSecrets = map[string]string{secrets.AnthropicAPIKey: "ak-secret"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ak-secret", cfg.Summarize.APIKey)
}

func TestNewProvider(t *testing.T) {
	p, err := newProvider(types.SearchConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &search.TavilyProvider{}, p)

	_, err = newProvider(types.SearchConfig{Provider: "bing"})
	assert.ErrorContains(t, err, "unknown search provider")
}
