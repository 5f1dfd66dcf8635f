// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns fetched HTML pages into readable text with
// pluggable backends.
package convert

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/deep-search/internal/container"
	"github.com/pdiddy/deep-search/pkg/types"
)

// Converter transforms an HTML document into text.
type Converter interface {
	Convert(ctx context.Context, page string) (string, error)
}

// New returns the converter selected by cfg. The markitdown backend needs a
// container runtime; pass nil for the html backend.
func New(ctx context.Context, cfg types.ConvertConfig, rt container.Runtime) (Converter, error) {
	switch cfg.Backend {
	case "", types.ConvertHTML:
		return HTMLConverter{}, nil
	case types.ConvertMarkitdown:
		if rt == nil {
			return nil, fmt.Errorf("markitdown backend requires a container runtime")
		}
		return NewMarkitdownConverter(ctx, rt)
	default:
		return nil, fmt.Errorf("unknown convert backend %q: use html or markitdown", cfg.Backend)
	}
}

// HTMLConverter walks the parsed document tree and keeps visible text.
// Headings and list items keep a light Markdown shape.
type HTMLConverter struct{}

// Convert parses page and returns its visible text.
func (HTMLConverter) Convert(_ context.Context, page string) (string, error) {
	if strings.TrimSpace(page) == "" {
		return "", nil
	}
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	var b strings.Builder
	extractText(doc, &b)
	return strings.TrimSpace(compactWhitespace(b.String())), nil
}

var headingPrefix = map[string]string{
	"h1": "# ", "h2": "## ", "h3": "### ",
	"h4": "#### ", "h5": "##### ", "h6": "###### ",
}

func extractText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "svg", "head", "iframe":
			return
		case "br", "p", "div", "tr", "section", "article", "header", "footer",
			"blockquote", "pre", "table", "ul", "ol", "dl", "dt", "dd":
			b.WriteString("\n")
		case "li":
			b.WriteString("\n- ")
		case "td", "th":
			b.WriteString(" ")
		default:
			if p, ok := headingPrefix[n.Data]; ok {
				b.WriteString("\n" + p)
			}
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b)
	}
	if n.Type == html.ElementNode {
		if _, ok := headingPrefix[n.Data]; ok || n.Data == "p" {
			b.WriteString("\n")
		}
	}
}

// compactWhitespace collapses runs of spaces inside each line and drops
// blank lines. A line made only of a list marker is dropped too.
func compactWhitespace(s string) string {
	s = strings.NewReplacer("\t", " ", "\r", " ", "\u00a0", " ").Replace(s)
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" || ln == "-" {
			continue
		}
		out = append(out, ln)
	}
	return strings.Join(out, "\n")
}
