// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package files

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-search/pkg/types"
)

// Export is a session snapshot.
type Export struct {
	Session  string              `json:"session" yaml:"session"`
	Files    []ExportFile        `json:"files" yaml:"files"`
	Messages []types.ToolMessage `json:"messages" yaml:"messages"`
}

// ExportFile holds one file with its metadata.
type ExportFile struct {
	FileInfo `yaml:",inline"`
	Content  string `json:"content" yaml:"content"`
}

// ExportYAML writes session as YAML to w.
func (s *Store) ExportYAML(ctx context.Context, session string, w io.Writer) error {
	snap, err := s.snapshot(ctx, session)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes session as indented JSON to w.
func (s *Store) ExportJSON(ctx context.Context, session string, w io.Writer) error {
	snap, err := s.snapshot(ctx, session)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) snapshot(ctx context.Context, session string) (*Export, error) {
	infos, err := s.List(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	fm, err := s.Load(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	msgs, err := s.Messages(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	snap := &Export{Session: session, Files: make([]ExportFile, len(infos)), Messages: msgs}
	for i, fi := range infos {
		snap.Files[i] = ExportFile{FileInfo: fi, Content: fm[fi.Name]}
	}
	return snap, nil
}
