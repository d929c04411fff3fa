// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"sort"
	"strings"

	"github.com/pdiddy/knowledge-engine/internal/keyword"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// ReplacePatterns swaps every pattern record owned by source for the given
// records. Each source file owns its records exclusively, so re-extracting
// an entry never duplicates its patterns.
func ReplacePatterns(idx *types.Index, source string, records []types.PatternRecord) {
	kept := make([]types.PatternRecord, 0, len(idx.Patterns)+len(records))
	for _, p := range idx.Patterns {
		if p.Source != source {
			kept = append(kept, p)
		}
	}
	idx.Patterns = append(kept, records...)
}

// IndexPatterns stamps freshly extracted records with their source and the
// current time, then persists them, replacing the source's previous records.
// It returns the number of records stored.
func (s *Store) IndexPatterns(source string, records []types.PatternRecord) (int, error) {
	source = s.Rel(source)
	ts := s.Timestamp()
	for i := range records {
		records[i].Source = source
		records[i].Added = ts
	}

	idx := s.Load()
	ReplacePatterns(idx, source, records)
	if err := s.Save(idx); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Filter returns the patterns matching an optional type and an optional
// case-insensitive substring of the pattern text or context.
func Filter(idx *types.Index, ptype types.PatternType, contains string) []types.PatternRecord {
	contains = strings.ToLower(contains)
	var out []types.PatternRecord
	for _, p := range idx.Patterns {
		if ptype != "" && p.Type != ptype {
			continue
		}
		if contains != "" &&
			!strings.Contains(strings.ToLower(p.Text), contains) &&
			!strings.Contains(strings.ToLower(p.Context), contains) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ScoredPattern pairs a pattern record with its relevance score for a query.
type ScoredPattern struct {
	types.PatternRecord
	Score int `json:"score" yaml:"score"`
}

// Search ranks patterns against a free-text query by keyword overlap.
// Matches in the pattern text weigh double matches in the context line.
// Results are sorted by descending score; a limit of zero means unlimited.
func Search(idx *types.Index, query string, limit int) []ScoredPattern {
	queryKeys := keyword.Extract(query)
	if len(queryKeys) == 0 {
		return nil
	}

	var scored []ScoredPattern
	for _, p := range idx.Patterns {
		score := 2*queryKeys.Overlap(keyword.Extract(p.Text)) +
			queryKeys.Overlap(keyword.Extract(p.Context))
		if score > 0 {
			scored = append(scored, ScoredPattern{PatternRecord: p, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
