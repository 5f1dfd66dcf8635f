// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// anthropicBase is the API root. Package-level var for test substitution.
var anthropicBase = "https://api.anthropic.com"

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// Anthropic calls the Anthropic Messages API. The JSON shape is requested in
// the prompt and reinforced by prefilling the assistant turn with "{".
type Anthropic struct {
	APIKey  string
	Model   string
	// BaseURL overrides anthropicBase when set.
	BaseURL string
	Client  *http.Client
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Name returns the backend identifier.
func (a *Anthropic) Name() string { return "anthropic" }

// Complete sends prompt as a single user message.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	if a.APIKey == "" {
		return "", fmt.Errorf("Anthropic API key not configured")
	}
	model := a.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     model,
		MaxTokens: 1024,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: "{"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	base := a.BaseURL
	if base == "" {
		base = anthropicBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Anthropic API returned %d: %s", resp.StatusCode, string(msg))
	}

	var ar anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", fmt.Errorf("decoding Anthropic response: %w", err)
	}
	for _, block := range ar.Content {
		if block.Type == "text" {
			// The prefilled "{" is not echoed back.
			return "{" + block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic API response")
}
