// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package files

import (
	"fmt"
	"strings"
)

const (
	// DefaultLineLimit is how many lines a read returns when no limit is given.
	DefaultLineLimit = 2000

	maxLineLen = 2000
)

// EmptyFileNotice is returned for a file that exists with no content.
const EmptyFileNotice = "System reminder: File exists but has empty contents"

// FormatLines returns lines [offset, offset+limit) of content, each prefixed
// with its 1-based line number. Lines over 2000 characters are cut.
func FormatLines(content string, offset, limit int) (string, error) {
	if strings.TrimSpace(content) == "" {
		return EmptyFileNotice, nil
	}
	if offset < 0 {
		return "", fmt.Errorf("offset must not be negative, got %d", offset)
	}
	if limit <= 0 {
		limit = DefaultLineLimit
	}

	lines := strings.Split(content, "\n")
	if offset >= len(lines) {
		return "", fmt.Errorf("line offset %d exceeds file length (%d lines)", offset, len(lines))
	}
	end := min(offset+limit, len(lines))

	var b strings.Builder
	for i := offset; i < end; i++ {
		line := lines[i]
		if r := []rune(line); len(r) > maxLineLen {
			line = string(r[:maxLineLen])
		}
		fmt.Fprintf(&b, "%6d\t%s", i+1, line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
