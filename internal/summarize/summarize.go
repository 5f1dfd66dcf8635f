// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize asks a language model for a short summary and a
// descriptive filename for one web page. A page always gets a summary: when
// the model fails or answers with something unusable, Summarize falls back
// to a truncated copy of the page text.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/deep-search/pkg/types"
)

const (
	// FallbackFilename names pages the model could not summarize.
	FallbackFilename = "search_result.md"

	fallbackRunes = 1000
)

// Model sends one prompt to a language model whose output is constrained to
// the page-summary JSON object and returns the raw reply text.
type Model interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Kind classifies an attempt.
type Kind int

const (
	OK Kind = iota
	// ModelError covers transport, API, timeout, and open-circuit failures.
	ModelError
	// MalformedOutput means the model answered but the reply is unusable.
	MalformedOutput
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case ModelError:
		return "model_error"
	case MalformedOutput:
		return "malformed_output"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the tagged result of one summarization attempt. Summary is
// only meaningful when Kind is OK.
type Outcome struct {
	Summary types.PageSummary
	Err     error
	Kind    Kind
}

// Summarizer renders the prompt and calls the model once per page.
type Summarizer struct {
	model   Model
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// New returns a Summarizer. A zero timeout leaves the caller's context as
// the only deadline.
func New(model Model, timeout time.Duration, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{model: model, timeout: timeout, now: time.Now, logger: logger}
}

// Attempt makes a single model call and classifies the result.
func (s *Summarizer) Attempt(ctx context.Context, pageText string) Outcome {
	if s.model == nil {
		return Outcome{Kind: ModelError, Err: fmt.Errorf("no summarization model configured")}
	}

	prompt, err := renderPrompt(pageText, s.now())
	if err != nil {
		return Outcome{Kind: ModelError, Err: fmt.Errorf("rendering prompt: %w", err)}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.model.Complete(ctx, prompt)
	if err != nil {
		return Outcome{Kind: ModelError, Err: fmt.Errorf("calling %s: %w", s.model.Name(), err)}
	}

	sum, err := parseSummary(reply)
	if err != nil {
		return Outcome{Kind: MalformedOutput, Err: err}
	}
	return Outcome{Kind: OK, Summary: sum}
}

// Summarize returns the model's summary, or the fallback summary when the
// attempt did not succeed. It never returns an error.
func (s *Summarizer) Summarize(ctx context.Context, pageText string) types.PageSummary {
	out := s.Attempt(ctx, pageText)
	if out.Kind == OK {
		return out.Summary
	}
	s.logger.Warn("summarization failed, using fallback",
		"kind", out.Kind.String(),
		"error", out.Err,
	)
	return Fallback(pageText)
}

// Fallback builds the summary used when the model cannot: the first 1000
// characters of pageText, with "..." appended when text was cut.
func Fallback(pageText string) types.PageSummary {
	summary := pageText
	if utf8.RuneCountInString(pageText) > fallbackRunes {
		summary = string([]rune(pageText)[:fallbackRunes]) + "..."
	}
	return types.PageSummary{Filename: FallbackFilename, Summary: summary}
}

// parseSummary decodes and validates the model reply. Some models wrap JSON
// in a Markdown code fence even when asked not to.
func parseSummary(reply string) (types.PageSummary, error) {
	text := stripCodeFence(strings.TrimSpace(reply))

	var sum types.PageSummary
	if err := json.Unmarshal([]byte(text), &sum); err != nil {
		return types.PageSummary{}, fmt.Errorf("decoding model reply: %w", err)
	}
	sum.Filename = strings.TrimSpace(sum.Filename)
	sum.Summary = strings.TrimSpace(sum.Summary)

	switch {
	case sum.Filename == "":
		return types.PageSummary{}, fmt.Errorf("model reply has empty filename")
	case strings.ContainsAny(sum.Filename, `/\`):
		return types.PageSummary{}, fmt.Errorf("model filename %q contains a path separator", sum.Filename)
	case path.Ext(sum.Filename) == "" || path.Ext(sum.Filename) == sum.Filename:
		return types.PageSummary{}, fmt.Errorf("model filename %q has no extension", sum.Filename)
	case sum.Summary == "":
		return types.PageSummary{}, fmt.Errorf("model reply has empty summary")
	}
	return sum, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
