// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/knowledge-engine/internal/journey"
)

const (
	savepointPrefix     = "refactor-backup-"
	manifestFile        = "BACKUP_INFO.json"
	savepointTimeLayout = "2006-01-02-15-04-05"
)

// Manifest describes a savepoint for later restoration.
type Manifest struct {
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	OriginalPath string `json:"original_path"`
	RestoreHint  string `json:"restore_hint"`
}

// Backup copies the journey tree into a timestamped savepoint and writes a
// manifest alongside it. It returns the savepoint path.
func (l *Layout) Backup() (string, error) {
	stamp := l.now().Format(savepointTimeLayout)
	dst := filepath.Join(l.baseDir, SavepointsDir, savepointPrefix+stamp)
	src := filepath.Join(l.baseDir, journey.Dir)

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", fmt.Errorf("creating savepoint: %w", err)
	}
	if _, err := os.Stat(src); err == nil {
		if err := copyTree(src, dst); err != nil {
			return "", fmt.Errorf("copying journey tree: %w", err)
		}
	}

	manifest := Manifest{
		Timestamp:    stamp,
		Type:         "journey-refactor-backup",
		OriginalPath: src,
		RestoreHint:  fmt.Sprintf("knowledge-engine journey rollback %s", filepath.Base(dst)),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dst, manifestFile), data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return dst, nil
}

// Savepoints lists the savepoint names, most recent last.
func (l *Layout) Savepoints() []string {
	entries, err := os.ReadDir(filepath.Join(l.baseDir, SavepointsDir))
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names
}

// Rollback replaces the journey tree with the named savepoint's contents.
// The current tree is removed first, so a rollback after a bad merge
// restores the exact pre-merge state.
func (l *Layout) Rollback(savepoint string) error {
	src := filepath.Join(l.baseDir, SavepointsDir, filepath.Base(savepoint))
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return fmt.Errorf("savepoint %q not found", savepoint)
	}

	dst := filepath.Join(l.baseDir, journey.Dir)
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing journey tree: %w", err)
	}
	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("restoring savepoint: %w", err)
	}
	// The manifest belongs to the savepoint, not to the restored tree.
	if err := os.Remove(filepath.Join(dst, manifestFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing restored manifest: %w", err)
	}
	return nil
}
