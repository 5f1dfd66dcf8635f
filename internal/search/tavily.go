// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/deep-search/pkg/types"
)

// tavilyBase is the Tavily API root. Declared as a var so tests can
// substitute an httptest server.
var tavilyBase = "https://api.tavily.com"

const maxTavilyErrorBody = 4096

// TavilyProvider queries the Tavily search API.
type TavilyProvider struct {
	Client    *http.Client
	APIKey    string
	// BaseURL overrides tavilyBase when set.
	BaseURL   string
	UserAgent string
}

// Name returns the provider identifier.
func (p *TavilyProvider) Name() string { return "tavily" }

type tavilyRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	Topic             string `json:"topic"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Query        string         `json:"query"`
	Results      []tavilyResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}

type tavilyResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	RawContent *string `json:"raw_content"`
}

// Search sends one POST /search request and maps the response results in
// provider order. Every failure is returned as a *ProviderError.
func (p *TavilyProvider) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	if p.APIKey == "" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("API key not configured")}
	}

	topic := opts.Topic
	if topic == "" {
		topic = types.TopicGeneral
	}

	body, err := json.Marshal(tavilyRequest{
		Query:             query,
		MaxResults:        opts.MaxResults,
		Topic:             string(topic),
		IncludeRawContent: opts.IncludeRawContent,
	})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("marshaling request: %w", err)}
	}

	base := p.BaseURL
	if base == "" {
		base = tavilyBase
	}
	reqURL := strings.TrimRight(base, "/") + "/search"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("Tavily API request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxTavilyErrorBody))
		return nil, &ProviderError{
			Provider:   p.Name(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("Tavily API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
		}
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing Tavily response: %w", err)}
	}

	results := make([]types.SearchResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		sr := types.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Score:   r.Score,
		}
		if r.RawContent != nil {
			sr.RawContent = *r.RawContent
		}
		results = append(results, sr)
	}
	return results, nil
}
