// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

func testLayout(t *testing.T) *Layout {
	t.Helper()
	base := filepath.Join(t.TempDir(), "knowledge")
	l := New(base)
	l.now = func() time.Time {
		return time.Date(2026, 8, 29, 16, 0, 0, 0, time.UTC)
	}
	if err := l.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	return l
}

func seedJourney(t *testing.T, l *Layout) string {
	t.Helper()
	dir := filepath.Join(l.baseDir, "journey", "infra", "cache-layer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2026-08-29-14-30-entry.md"), []byte("# Entry\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestEnsureDirs(t *testing.T) {
	l := testLayout(t)
	for _, dir := range []string{"facts", "journey", "savepoints"} {
		info, err := os.Stat(filepath.Join(l.baseDir, dir))
		if err != nil || !info.IsDir() {
			t.Errorf("missing directory %s: %v", dir, err)
		}
	}
}

func TestBackupAndRollback(t *testing.T) {
	l := testLayout(t)
	entryDir := seedJourney(t, l)

	sp, err := l.Backup()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(sp) != "refactor-backup-2026-08-29-16-00-00" {
		t.Errorf("savepoint name = %s", filepath.Base(sp))
	}

	var manifest Manifest
	data, err := os.ReadFile(filepath.Join(sp, "BACKUP_INFO.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.Type != "journey-refactor-backup" || manifest.Timestamp != "2026-08-29-16-00-00" {
		t.Errorf("manifest = %+v", manifest)
	}

	// Damage the journey tree, then roll back.
	if err := os.RemoveAll(entryDir); err != nil {
		t.Fatal(err)
	}
	if err := l.Rollback(filepath.Base(sp)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(entryDir, "2026-08-29-14-30-entry.md")); err != nil {
		t.Errorf("entry not restored: %v", err)
	}
	if _, err := os.Stat(filepath.Join(l.baseDir, "journey", "BACKUP_INFO.json")); !os.IsNotExist(err) {
		t.Error("manifest leaked into restored tree")
	}
}

func TestRollbackUnknownSavepoint(t *testing.T) {
	l := testLayout(t)
	if err := l.Rollback("refactor-backup-1999-01-01-00-00-00"); err == nil {
		t.Fatal("expected error for unknown savepoint")
	}
}

func TestCollect(t *testing.T) {
	l := testLayout(t)
	seedJourney(t, l)
	if err := os.WriteFile(filepath.Join(l.baseDir, "facts", "2026-08-29-f.md"), []byte("# Fact: f\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Backup(); err != nil {
		t.Fatal(err)
	}

	r := l.Collect()
	if len(r.Journeys) != 1 || r.Journeys[0].Path != "journey/infra/cache-layer" || r.Journeys[0].Entries != 1 {
		t.Errorf("Journeys = %+v", r.Journeys)
	}
	if len(r.Facts) != 1 || len(r.Savepoints) != 1 {
		t.Errorf("report = %+v", r)
	}
	if r.Total() != 3 {
		t.Errorf("Total = %d, want 3", r.Total())
	}
}

func TestResetClearsEverything(t *testing.T) {
	l := testLayout(t)
	seedJourney(t, l)
	if err := os.WriteFile(filepath.Join(l.baseDir, "facts", "2026-08-29-f.md"), []byte("# Fact: f\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Backup(); err != nil {
		t.Fatal(err)
	}

	archived, err := l.Reset(false)
	if err != nil {
		t.Fatal(err)
	}
	if archived != "" {
		t.Errorf("archived = %q, want none", archived)
	}

	if r := l.Collect(); r.Total() != 0 {
		t.Errorf("reset left items behind: %+v", r)
	}

	idx := index.NewStore(l.baseDir).Load()
	if idx.Version != types.IndexVersion || idx.Updated != nil || len(idx.Files) != 0 || len(idx.Patterns) != 0 {
		t.Errorf("factory index = %+v", idx)
	}
}

func TestResetWithArchive(t *testing.T) {
	l := testLayout(t)
	seedJourney(t, l)

	archived, err := l.Reset(true)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(archived) != "knowledge-archive-2026-08-29-16-00-00" {
		t.Errorf("archive dir = %s", archived)
	}
	if _, err := os.Stat(filepath.Join(archived, "journey", "infra", "cache-layer", "2026-08-29-14-30-entry.md")); err != nil {
		t.Errorf("archive missing entry: %v", err)
	}
	if r := l.Collect(); r.Total() != 0 {
		t.Errorf("reset left items behind: %+v", r)
	}
}
