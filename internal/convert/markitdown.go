// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-search/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter pipes HTML through the markitdown container image and
// returns Markdown.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter verifies the markitdown image exists in rt.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// Convert runs markitdown with an html extension hint on page.
func (m *MarkitdownConverter) Convert(ctx context.Context, page string) (string, error) {
	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, []string{"-x", "html"}, strings.NewReader(page), &out); err != nil {
		return "", fmt.Errorf("converting with markitdown: %w", err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output")
	}
	return out.String(), nil
}
