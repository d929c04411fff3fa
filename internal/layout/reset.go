// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/knowledge-engine/internal/fact"
	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/journey"
	"github.com/pdiddy/knowledge-engine/internal/meta"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// ResetJourney is one journey counted by a reset dry run.
type ResetJourney struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// ResetReport lists everything a reset would remove.
type ResetReport struct {
	Journeys   []ResetJourney `json:"journeys"`
	Facts      []string       `json:"facts"`
	Savepoints []string       `json:"savepoints"`
}

// Total counts the items across all sections.
func (r ResetReport) Total() int {
	return len(r.Journeys) + len(r.Facts) + len(r.Savepoints)
}

// Collect surveys the base directory and reports what a reset would
// remove, without touching anything.
func (l *Layout) Collect() ResetReport {
	var r ResetReport

	journeyRoot := filepath.Join(l.baseDir, journey.Dir)
	if categories, err := os.ReadDir(journeyRoot); err == nil {
		for _, cat := range categories {
			if !cat.IsDir() || strings.HasPrefix(cat.Name(), "_") || strings.HasPrefix(cat.Name(), ".") {
				continue
			}
			topics, err := os.ReadDir(filepath.Join(journeyRoot, cat.Name()))
			if err != nil {
				continue
			}
			for _, topic := range topics {
				if !topic.IsDir() || strings.HasPrefix(topic.Name(), "_") || strings.HasPrefix(topic.Name(), ".") {
					continue
				}
				r.Journeys = append(r.Journeys, ResetJourney{
					Path:    journey.Dir + "/" + cat.Name() + "/" + topic.Name(),
					Entries: countEntries(filepath.Join(journeyRoot, cat.Name(), topic.Name())),
				})
			}
		}
	}

	if facts, err := os.ReadDir(filepath.Join(l.baseDir, fact.Dir)); err == nil {
		for _, f := range facts {
			if !f.IsDir() && !strings.HasPrefix(f.Name(), ".") && strings.HasSuffix(f.Name(), ".md") {
				r.Facts = append(r.Facts, f.Name())
			}
		}
	}

	r.Savepoints = l.Savepoints()
	return r
}

func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() != meta.FileName && strings.HasSuffix(entry.Name(), ".md") {
			n++
		}
	}
	return n
}

// Reset restores factory defaults: journey categories, fact files, and
// savepoints are removed, and a fresh empty index is written. With archive
// set, the whole base directory is first copied to a sibling
// knowledge-archive-<timestamp> directory; its path is returned.
func (l *Layout) Reset(archive bool) (string, error) {
	var archived string
	if archive {
		stamp := l.now().Format(savepointTimeLayout)
		archived = filepath.Join(filepath.Dir(l.baseDir),
			filepath.Base(l.baseDir)+"-archive-"+stamp)
		if _, err := os.Stat(l.baseDir); err == nil {
			if err := copyTree(l.baseDir, archived); err != nil {
				return "", fmt.Errorf("archiving knowledge base: %w", err)
			}
		}
	}

	journeyRoot := filepath.Join(l.baseDir, journey.Dir)
	if categories, err := os.ReadDir(journeyRoot); err == nil {
		for _, cat := range categories {
			if cat.IsDir() && !strings.HasPrefix(cat.Name(), "_") && !strings.HasPrefix(cat.Name(), ".") {
				if err := os.RemoveAll(filepath.Join(journeyRoot, cat.Name())); err != nil {
					return archived, fmt.Errorf("clearing journeys: %w", err)
				}
			}
		}
	}

	factsDir := filepath.Join(l.baseDir, fact.Dir)
	if facts, err := os.ReadDir(factsDir); err == nil {
		for _, f := range facts {
			if !f.IsDir() && !strings.HasPrefix(f.Name(), ".") && strings.HasSuffix(f.Name(), ".md") {
				if err := os.Remove(filepath.Join(factsDir, f.Name())); err != nil {
					return archived, fmt.Errorf("clearing facts: %w", err)
				}
			}
		}
	}

	savepointsDir := filepath.Join(l.baseDir, SavepointsDir)
	if savepoints, err := os.ReadDir(savepointsDir); err == nil {
		for _, sp := range savepoints {
			if sp.IsDir() {
				if err := os.RemoveAll(filepath.Join(savepointsDir, sp.Name())); err != nil {
					return archived, fmt.Errorf("clearing savepoints: %w", err)
				}
			}
		}
	}

	// Factory index keeps updated null until the first real write.
	data, err := json.MarshalIndent(types.NewIndex(), "", "  ")
	if err != nil {
		return archived, fmt.Errorf("marshaling factory index: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(l.baseDir, index.FileName), data, 0o644); err != nil {
		return archived, fmt.Errorf("writing factory index: %w", err)
	}
	return archived, nil
}
