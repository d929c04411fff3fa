// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout maintains the knowledge base directory tree: bootstrap,
// savepoint backups of the journey tree, and factory reset.
package layout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/knowledge-engine/internal/fact"
	"github.com/pdiddy/knowledge-engine/internal/journey"
)

// SavepointsDir holds timestamped journey backups under the base directory.
const SavepointsDir = "savepoints"

// Layout operates on one knowledge base directory.
type Layout struct {
	baseDir string
	now     func() time.Time
}

// New returns a Layout rooted at baseDir.
func New(baseDir string) *Layout {
	return &Layout{baseDir: baseDir, now: time.Now}
}

// Base returns the knowledge base root directory.
func (l *Layout) Base() string {
	return l.baseDir
}

// EnsureDirs creates the base directory skeleton.
func (l *Layout) EnsureDirs() error {
	for _, dir := range []string{
		l.baseDir,
		filepath.Join(l.baseDir, fact.Dir),
		filepath.Join(l.baseDir, journey.Dir),
		filepath.Join(l.baseDir, SavepointsDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// copyTree copies a directory recursively. Existing destination files are
// overwritten.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
