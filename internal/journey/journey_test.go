// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/meta"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

const entryContent = `# WIP: Cache layer investigation

Notes on the write path.

### ✅ Solutions Found
- **Cache invalidation on write** - context: cache, invalidation, storage
`

func testManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(t.TempDir())
	m.now = func() time.Time {
		return time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	}
	return m
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Auth Setup", "auth-setup"},
		{"cache_layer  v2", "cache-layer-v2"},
		{"--already-kebab--", "already-kebab"},
		{"What?!", "what"},
		{"A  B___C", "a-b-c"},
	}
	for _, tt := range tests {
		if got := NormalizeTopic(tt.in); got != tt.want {
			t.Errorf("NormalizeTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntrySlug(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"wip prefix stripped", "# WIP: Cache layer investigation notes today\n", "cache-layer-investigation-notes"},
		{"plain heading", "# Fix flaky timeout\n", "fix-flaky-timeout"},
		{"no heading", "just text\n", "entry"},
		{"punctuation heading", "# !!!\n", "entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntrySlug(tt.content); got != tt.want {
				t.Errorf("EntrySlug = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateEntry(t *testing.T) {
	m := testManager(t)

	res, err := m.CreateEntry("infrastructure", "cache-layer", entryContent, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatal("result not successful")
	}
	if filepath.Base(res.File) != "2026-08-29-14-30-cache-layer-investigation.md" {
		t.Errorf("entry filename = %s", filepath.Base(res.File))
	}
	if res.PatternsIndexed != 1 {
		t.Errorf("PatternsIndexed = %d, want 1", res.PatternsIndexed)
	}

	// Metadata created with unioned keywords including topic words.
	got := meta.Read(filepath.Dir(res.File))
	if got.Topic != "cache-layer" || got.Status != types.StatusActive {
		t.Errorf("meta = %+v", got)
	}
	if got.Created != "2026-08-29 14:30" || got.LastUpdated != "2026-08-29 14:30" {
		t.Errorf("meta timestamps = %q / %q", got.Created, got.LastUpdated)
	}
	for _, want := range []string{"cache", "invalidation", "storage", "layer"} {
		found := false
		for _, k := range got.Keywords {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("meta keywords missing %q: %v", want, got.Keywords)
		}
	}

	// Index updated with descriptor and pattern.
	idx := index.NewStore(m.baseDir).Load()
	rel := "journey/infrastructure/cache-layer/" + filepath.Base(res.File)
	desc, ok := idx.Files[rel]
	if !ok {
		t.Fatalf("entry not indexed; files = %v", idx.Files)
	}
	if desc.Title != "WIP: Cache layer investigation" {
		t.Errorf("indexed title = %q", desc.Title)
	}
	if desc.Category != "infrastructure" || desc.Status != types.StatusInProgress || desc.Date != "2026-08-29" {
		t.Errorf("descriptor = %+v", desc)
	}
	if len(idx.Patterns) != 1 || idx.Patterns[0].Source != rel {
		t.Errorf("patterns = %+v", idx.Patterns)
	}
}

func TestCreateEntryDisambiguatesCollisions(t *testing.T) {
	m := testManager(t)

	first, err := m.CreateEntry("infra", "t", "# Same heading\n", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.CreateEntry("infra", "t", "# Same heading\n", "")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first.File) == filepath.Base(second.File) {
		t.Errorf("collision not disambiguated: %s", second.File)
	}
	if !strings.HasSuffix(second.File, "-1.md") {
		t.Errorf("second file = %s", second.File)
	}
}

func TestUpsertMetaKeywordsNeverShrink(t *testing.T) {
	m := testManager(t)

	if err := m.UpsertMeta("infra", "t", []string{"alpha", "beta"}, "tracking the t effort"); err != nil {
		t.Fatal(err)
	}
	if err := m.UpsertMeta("infra", "t", []string{"gamma"}, ""); err != nil {
		t.Fatal(err)
	}

	got := meta.Read(filepath.Join(m.dir(), "infra", "t"))
	want := []string{"alpha", "beta", "gamma"}
	if len(got.Keywords) != len(want) {
		t.Fatalf("keywords = %v, want %v", got.Keywords, want)
	}
	for i := range want {
		if got.Keywords[i] != want[i] {
			t.Errorf("keywords = %v, want %v", got.Keywords, want)
			break
		}
	}
	if got.Description != "tracking the t effort" {
		t.Errorf("description = %q, want it preserved across updates", got.Description)
	}
}

func TestUpsertMetaDefaultDescription(t *testing.T) {
	m := testManager(t)

	if err := m.UpsertMeta("infra", "cache-layer", []string{"cache"}, ""); err != nil {
		t.Fatal(err)
	}

	got := meta.Read(filepath.Join(m.dir(), "infra", "cache-layer"))
	if got.Description != "Work in progress on cache layer" {
		t.Errorf("description = %q", got.Description)
	}
}

func TestFind(t *testing.T) {
	m := testManager(t)
	if err := os.MkdirAll(filepath.Join(m.dir(), "infra", "nested-topic"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(m.dir(), "root-topic"), 0o755); err != nil {
		t.Fatal(err)
	}

	if path, cat, ok := m.Find("nested-topic"); !ok || cat != "infra" || !strings.HasSuffix(path, "nested-topic") {
		t.Errorf("Find(nested-topic) = %q, %q, %v", path, cat, ok)
	}
	if _, cat, ok := m.Find("root-topic"); !ok || cat != "" {
		t.Errorf("Find(root-topic) category = %q, ok = %v", cat, ok)
	}
	if _, _, ok := m.Find("missing"); ok {
		t.Error("Find(missing) reported ok")
	}
}

func TestScanEntries(t *testing.T) {
	m := testManager(t)
	res, err := m.CreateEntry("infra", "cache-layer", entryContent, "")
	if err != nil {
		t.Fatal(err)
	}

	entries, err := m.ScanEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (meta excluded): %+v", len(entries), entries)
	}
	e := entries[0]
	if e.Category != "infra" || e.Topic != "cache-layer" {
		t.Errorf("entry = %+v", e)
	}
	if e.RelPath != "journey/infra/cache-layer/"+filepath.Base(res.File) {
		t.Errorf("RelPath = %s", e.RelPath)
	}
	if e.Date != "2026-08-29" {
		t.Errorf("Date = %s", e.Date)
	}
	if e.Title != "WIP: Cache layer investigation" {
		t.Errorf("Title = %q", e.Title)
	}
}

func TestMove(t *testing.T) {
	m := testManager(t)
	if _, err := m.CreateEntry("old-cat", "movable", "# Move me\n", ""); err != nil {
		t.Fatal(err)
	}

	oldPath, newPath, err := m.Move("movable", "new-cat")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("source still present at %s", oldPath)
	}
	if _, err := os.Stat(filepath.Join(newPath, meta.FileName)); err != nil {
		t.Errorf("metadata missing after move: %v", err)
	}

	if _, _, err := m.Move("movable", "new-cat"); err == nil {
		t.Error("expected error moving onto existing journey")
	}
	if _, _, err := m.Move("ghost", "new-cat"); err == nil {
		t.Error("expected error for unknown topic")
	}
}

func TestMerge(t *testing.T) {
	m := testManager(t)

	// Two journeys with one colliding entry name.
	aDir := filepath.Join(m.dir(), "infra", "auth-setup")
	bDir := filepath.Join(m.dir(), "infra", "authentication-config")
	for _, d := range []string{aDir, bDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(d, "2026-08-01-10-00-setup.md"), []byte("# Setup\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := meta.Write(aDir, types.Meta{
		Topic: "auth-setup", Status: types.StatusActive,
		Created: "2026-08-01 10:00", LastUpdated: "2026-08-02 09:00",
		Keywords: []string{"auth", "oauth"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := meta.Write(bDir, types.Meta{
		Topic: "authentication-config", Status: types.StatusActive,
		Created: "2026-07-15 08:00", LastUpdated: "2026-08-10 16:00",
		Keywords: []string{"auth", "tokens"},
	}); err != nil {
		t.Fatal(err)
	}

	res, err := m.Merge("auth-setup", []string{"authentication-config"}, "")
	if err != nil {
		t.Fatal(err)
	}

	// Collision renamed with the source topic inserted after the date.
	renamed := filepath.Join(aDir, "2026-08-01-authentication-config-10-00-setup.md")
	if _, err := os.Stat(renamed); err != nil {
		t.Errorf("renamed entry missing: %v", err)
	}

	merged := meta.Read(aDir)
	if merged.Created != "2026-07-15 08:00" {
		t.Errorf("Created = %q, want earliest", merged.Created)
	}
	if merged.LastUpdated != "2026-08-10 16:00" {
		t.Errorf("LastUpdated = %q, want latest", merged.LastUpdated)
	}
	wantKeys := []string{"auth", "oauth", "tokens"}
	if len(merged.Keywords) != len(wantKeys) {
		t.Errorf("keywords = %v, want %v", merged.Keywords, wantKeys)
	}
	if len(merged.MergedFrom) != 1 || merged.MergedFrom[0] != "authentication-config" {
		t.Errorf("MergedFrom = %v", merged.MergedFrom)
	}
	if merged.MergeDate != "2026-08-29 14:30" {
		t.Errorf("MergeDate = %q", merged.MergeDate)
	}

	// Source directory survives; cleanup is a separate step.
	if _, err := os.Stat(bDir); err != nil {
		t.Errorf("source deleted by merge: %v", err)
	}
	if len(res.LeftBehind) != 1 || res.LeftBehind[0] != bDir {
		t.Errorf("LeftBehind = %v", res.LeftBehind)
	}
}

func TestConflictName(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{"2026-08-01-10-00-setup.md", "auth", "2026-08-01-auth-10-00-setup.md"},
		{"notes.md", "auth", "auth-notes.md"},
	}
	for _, tt := range tests {
		if got := conflictName(tt.name, tt.topic); got != tt.want {
			t.Errorf("conflictName(%q, %q) = %q, want %q", tt.name, tt.topic, got, tt.want)
		}
	}
}
