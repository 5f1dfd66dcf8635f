// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-search/pkg/types"
)

func testFetcher(t *testing.T, ts *httptest.Server, maxBody int64) *Fetcher {
	t.Helper()
	cfg := types.FetchConfig{
		HTTPConfig:   types.HTTPConfig{UserAgent: "test/0.1"},
		MaxBodyBytes: maxBody,
	}
	return New(ts.Client(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer ts.Close()

	page, err := testFetcher(t, ts, 0).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>hello</body></html>", string(page.Body))
	assert.Equal(t, "text/html; charset=utf-8", page.ContentType)
	assert.False(t, page.Truncated)
}

func TestFetchNon200IsFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"server error", http.StatusInternalServerError},
		{"no content", http.StatusNoContent},
		{"created", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			_, err := testFetcher(t, ts, 0).Fetch(context.Background(), ts.URL)
			require.Error(t, err)
			assert.True(t, IsStatus(err, tt.status), "got %v", err)
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	f := testFetcher(t, ts, 0)
	ts.Close()

	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP request")
}

func TestFetchInvalidURL(t *testing.T) {
	f := New(nil, types.FetchConfig{}, nil)
	_, err := f.Fetch(context.Background(), "://bad")
	require.Error(t, err)
}

func TestFetchTruncatesLargeBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer ts.Close()

	page, err := testFetcher(t, ts, 10).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, page.Body, 10)
	assert.True(t, page.Truncated)
}

func TestFetchFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("moved here"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	page, err := testFetcher(t, ts, 0).Fetch(context.Background(), ts.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "moved here", string(page.Body))
}

func TestStatusErrorMessage(t *testing.T) {
	e := &StatusError{URL: "https://example.com", StatusCode: 404}
	assert.Equal(t, "HTTP 404 from https://example.com", e.Error())
}
