// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads, mutates, and persists knowledge.json, the derived
// document that caches file descriptors and extracted patterns for the
// knowledge base. The markdown files on disk are authoritative; everything
// here can be reconstructed from them.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// FileName is the index document's name under the knowledge base root.
const FileName = "knowledge.json"

// Store reads and writes the index document for one knowledge base.
type Store struct {
	baseDir string
	now     func() time.Time
}

// NewStore returns a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// Path returns the full path of the index document.
func (s *Store) Path() string {
	return filepath.Join(s.baseDir, FileName)
}

// Load reads the index document. A missing, unreadable, or corrupt file
// yields the default empty index rather than an error: the document is
// derived state and a rebuild restores it.
func (s *Store) Load() *types.Index {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return types.NewIndex()
	}
	var idx types.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return types.NewIndex()
	}
	if idx.Version == 0 {
		idx.Version = types.IndexVersion
	}
	if idx.Files == nil {
		idx.Files = map[string]types.FileDescriptor{}
	}
	if idx.Patterns == nil {
		idx.Patterns = []types.PatternRecord{}
	}
	return &idx
}

// Save stamps the document's updated time and writes it as indented JSON.
func (s *Store) Save(idx *types.Index) error {
	ts := s.Timestamp()
	idx.Updated = &ts

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", FileName, err)
	}
	return nil
}

// Timestamp returns the store clock formatted as RFC 3339, the format used
// for the document's updated stamp and per-record added/modified stamps.
func (s *Store) Timestamp() string {
	return s.now().Format(time.RFC3339)
}

// Rel normalizes a file path to the knowledge-root-relative, slash-separated
// form used as an index key and pattern source. Paths outside the base
// directory are returned cleaned but otherwise unchanged.
func (s *Store) Rel(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}
