// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rebuild reconstructs knowledge.json from scratch by scanning the
// fact and journey files on disk. It is the designated repair tool for any
// inconsistency the audit reports: the previous index contents are
// discarded entirely.
package rebuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/knowledge-engine/internal/fact"
	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/journey"
	"github.com/pdiddy/knowledge-engine/internal/keyword"
	"github.com/pdiddy/knowledge-engine/internal/meta"
	"github.com/pdiddy/knowledge-engine/internal/pattern"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// Summary reports what a rebuild indexed.
type Summary struct {
	Success         bool `json:"success"`
	FilesIndexed    int  `json:"files_indexed"`
	PatternsIndexed int  `json:"patterns_indexed"`
}

// Engine rebuilds the index for one knowledge base.
type Engine struct {
	baseDir  string
	store    *index.Store
	journeys *journey.Manager
	facts    *fact.Engine
}

// NewEngine returns an Engine rooted at baseDir.
func NewEngine(baseDir string) *Engine {
	return &Engine{
		baseDir:  baseDir,
		store:    index.NewStore(baseDir),
		journeys: journey.NewManager(baseDir),
		facts:    fact.NewEngine(baseDir),
	}
}

// Run replaces the index with one derived from the current filesystem
// state. Placeholder patterns left over from entry templates are dropped
// rather than indexed.
func (e *Engine) Run() (Summary, error) {
	idx := types.NewIndex()
	var summary Summary
	stamp := e.store.Timestamp()

	entries, err := e.journeys.ScanEntries()
	if err != nil {
		return summary, err
	}
	for _, entry := range entries {
		path := filepath.Join(e.baseDir, filepath.FromSlash(entry.RelPath))
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)

		keys := keyword.Set{}
		for _, p := range pattern.Extract(content) {
			if pattern.IsPlaceholderText(p.Text) {
				continue
			}
			ctx := pattern.SplitContext(p.Context)
			if pattern.IsPlaceholderContext(ctx) {
				continue
			}
			p.Source = entry.RelPath
			p.Added = stamp
			idx.Patterns = append(idx.Patterns, p)
			summary.PatternsIndexed++
			addCleaned(keys, ctx)
		}

		harvestLines(keys, content)
		if entry.Category != "" {
			keys.Add(strings.ToLower(entry.Category))
		}
		for _, w := range strings.Split(entry.Topic, "-") {
			if len(w) > 2 {
				keys.Add(strings.ToLower(w))
			}
		}
		addCleaned(keys, meta.Read(filepath.Dir(path)).Keywords)

		idx.Files[entry.RelPath] = types.FileDescriptor{
			Title:    entry.Title,
			Category: entry.Category,
			Date:     entry.Date,
			Status:   types.StatusInProgress,
			Keywords: keys.Sorted(journey.FileKeywordLimit),
		}
		summary.FilesIndexed++
	}

	facts, err := e.facts.Scan()
	if err != nil {
		return summary, err
	}
	for _, f := range facts {
		keys := keyword.Identifiers(f.Text, fact.KeywordLimit)
		if keys == nil {
			keys = []string{}
		}
		title := f.Title
		if len(title) > 60 {
			title = title[:60]
		}
		idx.Files[f.Rel] = types.FileDescriptor{
			Title:    "Fact: " + title,
			Modified: stamp,
			Keywords: keys,
		}
		summary.FilesIndexed++
	}

	if err := e.store.Save(idx); err != nil {
		return summary, fmt.Errorf("writing rebuilt index: %w", err)
	}
	summary.Success = true
	return summary, nil
}

// harvestLines adds keywords from heading lines and context lines.
func harvestLines(keys keyword.Set, content string) {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			for _, w := range keyword.Identifiers(line, 0) {
				keys.Add(w)
			}
		}
		if ctx, ok := pattern.ContextLine(line); ok {
			addCleaned(keys, pattern.SplitContext(ctx))
		}
	}
}

func addCleaned(keys keyword.Set, raw []string) {
	for _, k := range raw {
		if c := pattern.CleanKeyword(k); c != "" && !pattern.IsPlaceholderKeyword(c) {
			keys.Add(c)
		}
	}
}
