// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deep-search pipeline:
// provider results, page summaries, processed results, and the file-mapping
// update a search tool hands back to its host agent.
package types

import (
	"fmt"
	"strings"
)

// Topic selects the search category understood by the provider.
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicNews    Topic = "news"
	TopicFinance Topic = "finance"
)

// Topics lists the accepted topics in documentation order.
var Topics = []Topic{TopicGeneral, TopicNews, TopicFinance}

// ParseTopic validates s as a Topic. An empty string yields TopicGeneral.
func ParseTopic(s string) (Topic, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TopicGeneral, nil
	}
	for _, t := range Topics {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid topic %q: use general, news, or finance", s)
}

// SearchOptions holds the per-call parameters sent to a search provider.
type SearchOptions struct {
	// MaxResults is the maximum number of results to return (at least 1).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Topic is the provider category filter.
	Topic Topic `json:"topic" yaml:"topic"`

	// IncludeRawContent asks the provider to return its own copy of each page.
	IncludeRawContent bool `json:"include_raw_content" yaml:"include_raw_content"`
}

// SearchResult is one ranked hit returned by a search provider.
type SearchResult struct {
	// URL is the address of the result page.
	URL string `json:"url" yaml:"url"`

	// Title is the page title as reported by the provider.
	Title string `json:"title" yaml:"title"`

	// Content is the provider's short summary or snippet of the page.
	Content string `json:"content" yaml:"content"`

	// RawContent is the provider's copy of the page text. It may be empty.
	RawContent string `json:"raw_content,omitempty" yaml:"raw_content,omitempty"`

	// Score is the provider relevance score, when one is reported.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}
