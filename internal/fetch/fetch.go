// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads result pages over HTTP. Success is strictly an
// HTTP 200 response; every other status and every transport error is a
// fetch failure the caller recovers from locally.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pdiddy/deep-search/internal/httputil"
	"github.com/pdiddy/deep-search/pkg/types"
)

const defaultMaxBodyBytes = 5 << 20

// StatusError reports a response whose status was not 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Page is a successfully fetched document.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
	// Truncated is set when the body exceeded the configured limit.
	Truncated bool
}

// Fetcher issues one GET per page through a pacing client. It never retries.
type Fetcher struct {
	pacer        *httputil.Pacer
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// New builds a Fetcher from cfg. A nil client gets one built from cfg.Timeout.
func New(client *http.Client, cfg types.FetchConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = httputil.NewClient(cfg.Timeout)
	}
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Fetcher{
		pacer:        httputil.NewPacer(client, cfg.Delay),
		userAgent:    cfg.UserAgent,
		maxBodyBytes: maxBody,
		logger:       logger,
	}
}

// Fetch GETs url and returns the page when the status is exactly 200.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.pacer.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBodyBytes))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	// Read one byte past the limit to detect truncation.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	page := &Page{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if int64(len(body)) > f.maxBodyBytes {
		page.Body = body[:f.maxBodyBytes]
		page.Truncated = true
	}

	f.logger.Debug("page fetched", "url", url, "bytes", len(page.Body), "truncated", page.Truncated)
	return page, nil
}
