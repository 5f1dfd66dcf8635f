// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageSummary is the structured output of page summarization: a short
// filename with an extension and a concise summary of the page.
type PageSummary struct {
	Filename string `json:"filename" yaml:"filename"`
	Summary  string `json:"summary" yaml:"summary"`
}

// ProcessedResult merges a SearchResult with its PageSummary. Filename is
// already uniquified and is the key under which the result is saved.
type ProcessedResult struct {
	URL        string `json:"url" yaml:"url"`
	Title      string `json:"title" yaml:"title"`
	Summary    string `json:"summary" yaml:"summary"`
	Filename   string `json:"filename" yaml:"filename"`
	RawContent string `json:"raw_content" yaml:"raw_content"`
}
