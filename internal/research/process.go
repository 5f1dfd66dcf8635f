// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research turns search results into saved documents. The Processor
// fetches, converts, and summarizes each result page; the Tool wraps one
// search plus processing into a single agent tool call that returns a file
// delta and a short digest.
package research

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/deep-search/internal/convert"
	"github.com/pdiddy/deep-search/internal/fetch"
	"github.com/pdiddy/deep-search/pkg/types"
)

const (
	// ErrorFilename names results whose page could not be read.
	ErrorFilename = "URL_error.md"

	fetchErrorSummary = "Error reading URL; try another search."
	tokenLen          = 8
)

// PageFetcher downloads one page. A nil error means HTTP 200.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// PageSummarizer always produces a summary, falling back internally.
type PageSummarizer interface {
	Summarize(ctx context.Context, pageText string) types.PageSummary
}

// Processor handles a batch of search results sequentially.
type Processor struct {
	fetcher    PageFetcher
	converter  convert.Converter
	summarizer PageSummarizer
	token      func() string
	logger     *slog.Logger
}

// NewProcessor wires the per-page stages.
func NewProcessor(f PageFetcher, c convert.Converter, s PageSummarizer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{fetcher: f, converter: c, summarizer: s, token: NewToken, logger: logger}
}

// Process returns one ProcessedResult per input, in input order. A page
// that cannot be fetched or converted gets the provider's own content as
// its summary; it never fails the batch.
func (p *Processor) Process(ctx context.Context, results []types.SearchResult) []types.ProcessedResult {
	out := make([]types.ProcessedResult, 0, len(results))
	for i, r := range results {
		text, err := p.readPage(ctx, r.URL)

		var sum types.PageSummary
		raw := text
		if err != nil {
			p.logger.Warn("page unavailable, using provider content",
				"url", r.URL,
				"error", err,
			)
			raw = r.RawContent
			sum = types.PageSummary{Filename: ErrorFilename, Summary: r.Content}
			if sum.Summary == "" {
				sum.Summary = fetchErrorSummary
			}
		} else {
			sum = p.summarizer.Summarize(ctx, text)
		}

		pr := types.ProcessedResult{
			URL:        r.URL,
			Title:      r.Title,
			Summary:    sum.Summary,
			Filename:   Uniquify(sum.Filename, p.token()),
			RawContent: raw,
		}
		p.logger.Debug("result processed",
			"index", i,
			"url", r.URL,
			"filename", pr.Filename,
		)
		out = append(out, pr)
	}
	return out
}

func (p *Processor) readPage(ctx context.Context, url string) (string, error) {
	page, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	text, err := p.converter.Convert(ctx, string(page.Body))
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", url, err)
	}
	return text, nil
}

// Uniquify inserts "_" + token before the extension of name.
func Uniquify(name, token string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + token + ext
}

// NewToken returns 8 characters of the unpadded URL-safe base64 encoding of
// a random UUID.
func NewToken() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])[:tokenLen]
}
