// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package files

import (
	"context"
	"fmt"
)

const defaultGrepLimit = 20

// Match is one full-text hit.
type Match struct {
	Name    string `json:"name" yaml:"name"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Grep runs an FTS5 query over the content of session's files, best
// matches first. limit <= 0 uses 20.
func (s *Store) Grep(ctx context.Context, session, query string, limit int) ([]Match, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = defaultGrepLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT f.name, snippet(files_fts, 0, '[', ']', '...', 12)
		FROM files_fts
		JOIN files f ON f.rowid = files_fts.rowid
		WHERE files_fts MATCH ? AND f.session = ?
		ORDER BY files_fts.rank
		LIMIT ?`, query, session, limit)
	if err != nil {
		return nil, fmt.Errorf("searching files: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Name, &m.Snippet); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
