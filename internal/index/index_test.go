// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/knowledge-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	s.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := testStore(t)
	idx := s.Load()
	if idx.Version != types.IndexVersion {
		t.Errorf("Version = %d, want %d", idx.Version, types.IndexVersion)
	}
	if idx.Updated != nil {
		t.Errorf("Updated = %v, want nil", *idx.Updated)
	}
	if idx.Files == nil || len(idx.Files) != 0 {
		t.Errorf("Files = %v, want empty map", idx.Files)
	}
	if idx.Patterns == nil || len(idx.Patterns) != 0 {
		t.Errorf("Patterns = %v, want empty slice", idx.Patterns)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	idx := s.Load()
	if idx.Version != types.IndexVersion || len(idx.Files) != 0 {
		t.Errorf("corrupt file did not yield default index: %+v", idx)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	idx := types.NewIndex()
	idx.Files["facts/2026-08-29-retry-backoff.md"] = types.FileDescriptor{
		Title:    "Use exponential backoff when retrying",
		Modified: "2026-08-29T12:00:00Z",
		Keywords: []string{"backoff", "retry"},
	}
	idx.Patterns = append(idx.Patterns, types.PatternRecord{
		Type:       types.PatternSolution,
		Text:       "Batch writes before flushing",
		Context:    "writes, batching, flush",
		Confidence: 0.9,
		Source:     "journey/performance/entry.md",
	})

	if err := s.Save(idx); err != nil {
		t.Fatal(err)
	}
	if idx.Updated == nil || *idx.Updated != "2026-08-29T12:00:00Z" {
		t.Errorf("Updated = %v, want save timestamp", idx.Updated)
	}

	got := s.Load()
	if len(got.Files) != 1 || len(got.Patterns) != 1 {
		t.Fatalf("round trip lost records: %+v", got)
	}
	if got.Files["facts/2026-08-29-retry-backoff.md"].Title != "Use exponential backoff when retrying" {
		t.Errorf("file descriptor did not survive round trip")
	}
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	s := testStore(t)
	if err := s.Save(types.NewIndex()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"version\": 1") {
		t.Errorf("index not written as indented JSON:\n%s", data)
	}
}

func TestReplacePatternsOwnsSourceExclusively(t *testing.T) {
	idx := types.NewIndex()
	idx.Patterns = []types.PatternRecord{
		{Type: types.PatternSolution, Text: "old a", Source: "journey/x/a.md"},
		{Type: types.PatternGotcha, Text: "old b", Source: "journey/x/a.md"},
		{Type: types.PatternSolution, Text: "other", Source: "journey/y/b.md"},
	}

	ReplacePatterns(idx, "journey/x/a.md", []types.PatternRecord{
		{Type: types.PatternSolution, Text: "new a", Source: "journey/x/a.md"},
	})

	if len(idx.Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(idx.Patterns))
	}
	for _, p := range idx.Patterns {
		if p.Source == "journey/x/a.md" && p.Text != "new a" {
			t.Errorf("stale record survived replacement: %+v", p)
		}
	}
}

func TestReplacePatternsEmptyClearsSource(t *testing.T) {
	idx := types.NewIndex()
	idx.Patterns = []types.PatternRecord{
		{Type: types.PatternSolution, Text: "a", Source: "journey/x/a.md"},
	}
	ReplacePatterns(idx, "journey/x/a.md", nil)
	if len(idx.Patterns) != 0 {
		t.Errorf("got %d patterns, want 0", len(idx.Patterns))
	}
}

func TestFilter(t *testing.T) {
	idx := types.NewIndex()
	idx.Patterns = []types.PatternRecord{
		{Type: types.PatternSolution, Text: "Batch writes", Context: "db, writes"},
		{Type: types.PatternGotcha, Text: "Locks escalate", Context: "db, locks"},
		{Type: types.PatternSolution, Text: "Cache reads", Context: "cache"},
	}

	if got := Filter(idx, types.PatternSolution, ""); len(got) != 2 {
		t.Errorf("type filter: got %d, want 2", len(got))
	}
	if got := Filter(idx, "", "db"); len(got) != 2 {
		t.Errorf("substring filter: got %d, want 2", len(got))
	}
	if got := Filter(idx, types.PatternGotcha, "locks"); len(got) != 1 {
		t.Errorf("combined filter: got %d, want 1", len(got))
	}
	if got := Filter(idx, "", ""); len(got) != 3 {
		t.Errorf("no filter: got %d, want 3", len(got))
	}
}

func TestSearchRanksTextAboveContext(t *testing.T) {
	idx := types.NewIndex()
	idx.Patterns = []types.PatternRecord{
		{Type: types.PatternSolution, Text: "Tune the connection pool", Context: "database, performance"},
		{Type: types.PatternGotcha, Text: "Migrations lock tables", Context: "database, schema"},
		{Type: types.PatternSolution, Text: "Pin compiler versions", Context: "build"},
	}

	got := Search(idx, "database connection pool", 0)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Text != "Tune the connection pool" {
		t.Errorf("top result = %q, want text match ranked first", got[0].Text)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %d, %d", got[0].Score, got[1].Score)
	}
}

func TestSearchLimitAndEmptyQuery(t *testing.T) {
	idx := types.NewIndex()
	idx.Patterns = []types.PatternRecord{
		{Text: "alpha result", Context: "alpha"},
		{Text: "alpha also", Context: "alpha"},
	}
	if got := Search(idx, "alpha", 1); len(got) != 1 {
		t.Errorf("limit ignored: got %d results", len(got))
	}
	if got := Search(idx, "the of and", 0); got != nil {
		t.Errorf("stop-word query returned %d results, want none", len(got))
	}
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	idx := types.NewIndex()
	idx.Files["facts/f.md"] = types.FileDescriptor{Title: "f", Keywords: []string{"k"}}
	if err := s.Save(idx); err != nil {
		t.Fatal(err)
	}

	path, err := s.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "export.json" {
		t.Errorf("path = %s, want export.json", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got types.Index
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.Files["facts/f.md"].Title != "f" {
		t.Errorf("export missing file record")
	}
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	if err := s.Save(types.NewIndex()); err != nil {
		t.Fatal(err)
	}

	path, err := s.ExportYAML()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Errorf("YAML export missing version field:\n%s", data)
	}
}
