// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package files persists agent session files and tool messages in SQLite.
// Each tool Update is applied inside one transaction so a session never
// observes a partial result set. File content is indexed with FTS5.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deep-search/pkg/types"
)

const (
	defaultDBPath  = "deep-search.db"
	DefaultSession = "default"
)

// ErrNotFound is returned when a session has no file of the given name.
var ErrNotFound = errors.New("file not found")

// Store manages the session database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name      string    `json:"name" yaml:"name"`
	Size      int       `json:"size" yaml:"size"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS files (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(session, name)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			tool_call_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='files_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE files_fts USING fts5(content, content=files, content_rowid=rowid)`,
		`CREATE TRIGGER files_ai AFTER INSERT ON files BEGIN
			INSERT INTO files_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER files_ad AFTER DELETE ON files BEGIN
			INSERT INTO files_fts(files_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER files_au AFTER UPDATE ON files BEGIN
			INSERT INTO files_fts(files_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			INSERT INTO files_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Load returns every file in session.
func (s *Store) Load(ctx context.Context, session string) (types.FileMap, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, content FROM files WHERE session = ?`, session)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", session, err)
	}
	defer rows.Close()

	fm := types.FileMap{}
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		fm[name] = content
	}
	return fm, rows.Err()
}

// Apply writes the update's files and messages to session in one
// transaction. Files not named in the update are left untouched.
func (s *Store) Apply(ctx context.Context, session string, u types.Update) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ts := s.now().UTC().Format(time.RFC3339Nano)

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (session, name, content, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session, name) DO UPDATE SET
			content=excluded.content, updated_at=excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing file upsert: %w", err)
	}
	defer stmt.Close()

	for _, name := range u.Files.Names() {
		if _, err := stmt.ExecContext(ctx, session, name, u.Files[name], ts); err != nil {
			return fmt.Errorf("writing file %s: %w", name, err)
		}
	}

	for _, m := range u.Messages {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session, tool_call_id, content, created_at) VALUES (?, ?, ?, ?)`,
			session, m.ToolCallID, m.Content, ts)
		if err != nil {
			return fmt.Errorf("appending message for %s: %w", m.ToolCallID, err)
		}
	}

	return tx.Commit()
}

// Read returns one file's content, or ErrNotFound.
func (s *Store) Read(ctx context.Context, session, name string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM files WHERE session = ? AND name = ?`, session, name,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return content, nil
}

// List returns the files of session sorted by name.
func (s *Store) List(ctx context.Context, session string) ([]FileInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, length(content), updated_at FROM files WHERE session = ? ORDER BY name`, session)
	if err != nil {
		return nil, fmt.Errorf("listing session %s: %w", session, err)
	}
	defer rows.Close()

	var out []FileInfo
	for rows.Next() {
		var (
			fi FileInfo
			ts string
		)
		if err := rows.Scan(&fi.Name, &fi.Size, &ts); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		fi.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, fi)
	}
	return out, rows.Err()
}

// Messages returns the tool messages logged for session, oldest first.
func (s *Store) Messages(ctx context.Context, session string) ([]types.ToolMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tool_call_id, content FROM messages WHERE session = ? ORDER BY id`, session)
	if err != nil {
		return nil, fmt.Errorf("reading messages for %s: %w", session, err)
	}
	defer rows.Close()

	var out []types.ToolMessage
	for rows.Next() {
		var m types.ToolMessage
		if err := rows.Scan(&m.ToolCallID, &m.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Sessions returns every session that holds files, sorted.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT session FROM files ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
