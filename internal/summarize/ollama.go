// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3.1"
)

// Ollama calls a local Ollama server through its native chat API. The reply
// is constrained with the JSON schema passed as the request format.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama connects to host (default http://localhost:11434).
func NewOllama(host, model string, httpClient *http.Client) (*Ollama, error) {
	if host == "" {
		host = defaultOllamaHost
	}
	u, err := url.Parse(strings.TrimRight(host, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing Ollama host %q: %w", host, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{client: api.NewClient(u, httpClient), model: model}, nil
}

// Name returns the backend identifier.
func (o *Ollama) Name() string { return "ollama" }

// Complete runs one non-streaming chat turn.
func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Format:   summarySchema,
	}

	var b strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		b.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("calling Ollama chat: %w", err)
	}
	return b.String(), nil
}
