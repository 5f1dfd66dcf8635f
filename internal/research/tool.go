// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/deep-search/internal/search"
	"github.com/pdiddy/deep-search/internal/summarize"
	"github.com/pdiddy/deep-search/pkg/types"
)

// ToolName is the name the tool is registered under with agents.
const ToolName = "web_search"

// ToolDescription is shown to agents choosing a tool.
const ToolDescription = "Search the web and save detailed results to files while returning minimal context. " +
	"Each result page is fetched, summarized, and stored as a file; the reply lists the files " +
	"with short summaries. Use read_file to access full details when needed."

// Args are the caller-supplied tool arguments.
type Args struct {
	Query string `json:"query"`
	// MaxResults defaults to 1.
	MaxResults int `json:"max_results,omitempty"`
	// Topic defaults to general.
	Topic types.Topic `json:"topic,omitempty"`
}

// Tool runs one search, processes every result, and builds the update the
// host applies to its session.
type Tool struct {
	provider  search.Provider
	processor *Processor
	now       func() time.Time
	logger    *slog.Logger
}

// NewTool returns a Tool backed by provider and processor.
func NewTool(provider search.Provider, processor *Processor, logger *slog.Logger) *Tool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tool{provider: provider, processor: processor, now: time.Now, logger: logger}
}

// Run executes the tool. Search provider failures are returned as errors;
// page-level failures never are. tc.Files is not modified.
func (t *Tool) Run(ctx context.Context, args Args, tc types.ToolContext) (types.Update, error) {
	if args.MaxResults == 0 {
		args.MaxResults = 1
	}
	topic, err := types.ParseTopic(string(args.Topic))
	if err != nil {
		return types.Update{}, err
	}

	results, err := search.Search(ctx, t.provider, args.Query, types.SearchOptions{
		MaxResults:        args.MaxResults,
		Topic:             topic,
		IncludeRawContent: true,
	}, t.logger)
	if err != nil {
		return types.Update{}, fmt.Errorf("searching %q: %w", args.Query, err)
	}

	processed := t.processor.Process(ctx, results)
	today := t.now().Format(summarize.DateLayout)

	delta := make(types.FileMap, len(processed))
	for _, pr := range processed {
		delta[pr.Filename] = FormatDocument(pr, args.Query, today)
	}

	t.logger.Info("web search completed",
		"query", args.Query,
		"results", len(processed),
		"tool_call_id", tc.ToolCallID,
	)

	return types.Update{
		Files: delta,
		Messages: []types.ToolMessage{{
			ToolCallID: tc.ToolCallID,
			Content:    FormatDigest(args.Query, processed),
		}},
	}, nil
}

// FormatDocument renders the file saved for one result.
func FormatDocument(pr types.ProcessedResult, query, date string) string {
	raw := pr.RawContent
	if raw == "" {
		raw = "No raw content available"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Search Result: %s\n\n", pr.Title)
	fmt.Fprintf(&b, "**URL:** %s\n", pr.URL)
	fmt.Fprintf(&b, "**Query:** %s\n", query)
	fmt.Fprintf(&b, "**Date:** %s\n\n", date)
	fmt.Fprintf(&b, "## Summary\n%s\n\n", pr.Summary)
	fmt.Fprintf(&b, "## Raw Content\n%s\n", raw)
	return b.String()
}

// FormatDigest renders the tool message listing saved files in order.
func FormatDigest(query string, processed []types.ProcessedResult) string {
	lines := make([]string, len(processed))
	names := make([]string, len(processed))
	for i, pr := range processed {
		lines[i] = fmt.Sprintf("- %s: %s...", pr.Filename, pr.Summary)
		names[i] = pr.Filename
	}
	return fmt.Sprintf("Found %d result(s) for '%s':\n\n%s\n\nFiles: %s\nUse read_file() to access full details when needed.",
		len(processed), query, strings.Join(lines, "\n"), strings.Join(names, ", "))
}
