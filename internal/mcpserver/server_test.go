// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-search/internal/convert"
	"github.com/pdiddy/deep-search/internal/fetch"
	"github.com/pdiddy/deep-search/internal/files"
	"github.com/pdiddy/deep-search/internal/research"
	"github.com/pdiddy/deep-search/internal/search"
	"github.com/pdiddy/deep-search/internal/summarize"
	"github.com/pdiddy/deep-search/pkg/types"
)

type mockProvider struct {
	results []types.SearchResult
	err     error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Search(context.Context, string, types.SearchOptions) ([]types.SearchResult, error) {
	return m.results, m.err
}

type fixedModel struct{}

func (fixedModel) Name() string { return "fixed" }

func (fixedModel) Complete(context.Context, string) (string, error) {
	return `{"filename": "page.md", "summary": "A page."}`, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T, p search.Provider) (*Server, *files.Store) {
	t.Helper()
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<p>line one</p><p>line two</p>")
	}))
	t.Cleanup(pages.Close)

	store, err := files.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := fetch.New(pages.Client(), types.FetchConfig{}, discardLogger())
	proc := research.NewProcessor(f, convert.HTMLConverter{}, summarize.New(fixedModel{}, time.Second, discardLogger()), discardLogger())
	tool := research.NewTool(p, proc, discardLogger())

	if mp, ok := p.(*mockProvider); ok {
		for i := range mp.results {
			mp.results[i].URL = pages.URL + mp.results[i].URL
		}
	}
	return New(tool, store, "agent-1", "test", discardLogger()), store
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var parts []string
	for _, c := range res.Content {
		switch v := c.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestWebSearchSavesFilesAndReturnsDigest(t *testing.T) {
	p := &mockProvider{results: []types.SearchResult{{URL: "/a", Title: "A"}, {URL: "/b", Title: "B"}}}
	s, store := testServer(t, p)
	ctx := context.Background()

	res, err := s.handleWebSearch(ctx, callRequest(research.ToolName, map[string]any{
		"query":        "go",
		"max_results":  float64(2),
		"tool_call_id": "call_42",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	digest := resultText(t, res)
	assert.True(t, strings.HasPrefix(digest, "Found 2 result(s) for 'go':"))

	fm, err := store.Load(ctx, "agent-1")
	require.NoError(t, err)
	assert.Len(t, fm, 2)
	for name := range fm {
		assert.Contains(t, digest, name)
	}

	msgs, err := store.Messages(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "call_42", msgs[0].ToolCallID)
	assert.Equal(t, digest, msgs[0].Content)
}

func TestWebSearchGeneratesCallID(t *testing.T) {
	s, store := testServer(t, &mockProvider{})
	ctx := context.Background()

	_, err := s.handleWebSearch(ctx, callRequest(research.ToolName, map[string]any{"query": "x"}))
	require.NoError(t, err)

	msgs, err := store.Messages(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Len(t, msgs[0].ToolCallID, 36)
}

func TestWebSearchProviderErrorIsToolError(t *testing.T) {
	p := &mockProvider{err: &search.ProviderError{Provider: "mock", StatusCode: 429, Err: errors.New("rate limited")}}
	s, store := testServer(t, p)
	ctx := context.Background()

	res, err := s.handleWebSearch(ctx, callRequest(research.ToolName, map[string]any{"query": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "rate limited")

	fm, err := store.Load(ctx, "agent-1")
	require.NoError(t, err)
	assert.Empty(t, fm)
}

func TestReadFileAndLs(t *testing.T) {
	s, store := testServer(t, &mockProvider{})
	ctx := context.Background()
	require.NoError(t, store.Apply(ctx, "agent-1", types.Update{Files: types.FileMap{
		"notes.md": "first\nsecond\nthird",
		"a.md":     "x",
	}}))

	res, err := s.handleReadFile(ctx, callRequest("read_file", map[string]any{"file_path": "notes.md", "offset": float64(1), "limit": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "     2\tsecond", resultText(t, res))

	res, err = s.handleReadFile(ctx, callRequest("read_file", map[string]any{"file_path": "missing.md"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "File 'missing.md' not found")

	res, err = s.handleReadFile(ctx, callRequest("read_file", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleLs(ctx, callRequest("ls", nil))
	require.NoError(t, err)
	assert.Equal(t, "a.md\nnotes.md", resultText(t, res))
}

func TestServeListsTools(t *testing.T) {
	s, _ := testServer(t, &mockProvider{})

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := s.Serve(ctx, strings.NewReader(in), pw)
		pw.Close()
		done <- err
	}()

	var names []string
	sc := bufio.NewScanner(pr)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var msg struct {
			ID     int `json:"id"`
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &msg))
		if msg.ID == 2 {
			for _, tl := range msg.Result.Tools {
				names = append(names, tl.Name)
			}
			break
		}
	}
	cancel()
	pr.Close()
	<-done

	assert.ElementsMatch(t, []string{"web_search", "read_file", "ls"}, names)
}
