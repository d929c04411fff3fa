// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit inspects a knowledge base for redundancy and index drift.
// It never mutates anything: every finding is advisory, and rebuild or
// reset are the repair tools.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/knowledge-engine/internal/fact"
	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/journey"
	"github.com/pdiddy/knowledge-engine/internal/keyword"
	"github.com/pdiddy/knowledge-engine/internal/meta"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

const (
	// FactThreshold is the pairwise similarity at which two facts are
	// considered redundant.
	FactThreshold = 0.4

	// TopicThreshold and KeywordThreshold gate journey consolidation
	// suggestions, together with MinKeywordOverlap.
	TopicThreshold    = 0.5
	KeywordThreshold  = 0.4
	MinKeywordOverlap = 3
)

// LedgerFile is the external commit ledger cross-checked by the audit.
const LedgerFile = "commit-history.md"

// FactInfo identifies one fact inside a redundancy group.
type FactInfo struct {
	File string `json:"file"`
	Text string `json:"text"`
}

// JourneyInfo identifies one journey inside a consolidation group.
type JourneyInfo struct {
	Topic    string   `json:"topic"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Entries  int      `json:"entries"`
}

// Report is the result of one audit run.
type Report struct {
	Generated              string          `json:"generated"`
	FactGroups             [][]FactInfo    `json:"fact_groups"`
	JourneyGroups          [][]JourneyInfo `json:"journey_groups"`
	OrphanedRefs           []string        `json:"orphaned_refs"`
	UnindexedFiles         []string        `json:"unindexed_files"`
	OrphanedPatternSources []string        `json:"orphaned_pattern_sources"`
	LedgerOrphans          []string        `json:"ledger_orphans"`
	NeedsRebuild           bool            `json:"needs_rebuild"`
}

// Issues counts the findings across all checks.
func (r Report) Issues() int {
	return len(r.FactGroups) + len(r.JourneyGroups) + len(r.OrphanedRefs) +
		len(r.UnindexedFiles) + len(r.OrphanedPatternSources) + len(r.LedgerOrphans)
}

// Engine audits one knowledge base.
type Engine struct {
	baseDir  string
	store    *index.Store
	journeys *journey.Manager
	facts    *fact.Engine
	now      func() time.Time

	factThreshold    float64
	topicThreshold   float64
	keywordThreshold float64
	minOverlap       int
}

// NewEngine returns an Engine rooted at baseDir with the stock thresholds.
func NewEngine(baseDir string) *Engine {
	return &Engine{
		baseDir:          baseDir,
		store:            index.NewStore(baseDir),
		journeys:         journey.NewManager(baseDir),
		facts:            fact.NewEngine(baseDir),
		now:              time.Now,
		factThreshold:    FactThreshold,
		topicThreshold:   TopicThreshold,
		keywordThreshold: KeywordThreshold,
		minOverlap:       MinKeywordOverlap,
	}
}

// Configure overrides the grouping thresholds from cfg. Zero-valued fields
// keep the defaults.
func (e *Engine) Configure(cfg types.KnowledgeConfig) {
	if cfg.AuditSimilarity > 0 {
		e.factThreshold = cfg.AuditSimilarity
	}
	if cfg.TopicSimilarity > 0 {
		e.topicThreshold = cfg.TopicSimilarity
	}
	if cfg.JourneySimilarity > 0 {
		e.keywordThreshold = cfg.JourneySimilarity
	}
	if cfg.KeywordOverlap > 0 {
		e.minOverlap = cfg.KeywordOverlap
	}
}

// Run performs every check and returns the combined report.
func (e *Engine) Run() (Report, error) {
	r := Report{Generated: e.now().Format(types.MetaTimeLayout)}

	var err error
	if r.FactGroups, err = e.factGroups(); err != nil {
		return r, err
	}
	if r.JourneyGroups, err = e.journeyGroups(); err != nil {
		return r, err
	}
	if err = e.crossReference(&r); err != nil {
		return r, err
	}
	r.LedgerOrphans = e.ledgerOrphans()
	r.NeedsRebuild = len(r.OrphanedRefs) > 0 || len(r.UnindexedFiles) > 0
	return r, nil
}

// factGroups clusters facts whose pairwise similarity reaches the
// threshold. Clustering is greedy: the first unassigned fact anchors a
// group, and a fact assigned to one group is never considered again, so
// transitively-similar facts may land in separate groups. Acceptable for an
// advisory report.
func (e *Engine) factGroups() ([][]FactInfo, error) {
	facts, err := e.facts.Scan()
	if err != nil {
		return nil, err
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].Name < facts[j].Name })

	var groups [][]FactInfo
	used := make([]bool, len(facts))
	for i, anchor := range facts {
		if used[i] {
			continue
		}
		group := []FactInfo{{File: anchor.Name, Text: excerpt(anchor.Text)}}
		for j := i + 1; j < len(facts); j++ {
			if used[j] {
				continue
			}
			if keyword.Similarity(anchor.Text, facts[j].Text) >= e.factThreshold {
				group = append(group, FactInfo{File: facts[j].Name, Text: excerpt(facts[j].Text)})
				used[j] = true
			}
		}
		if len(group) > 1 {
			used[i] = true
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func excerpt(text string) string {
	if len(text) > 80 {
		return text[:80] + "..."
	}
	return text
}

// journeyGroups clusters journeys that look like the same effort: similar
// topic names, high keyword-set overlap, or three or more shared keywords.
// Same greedy first-match-wins pass as factGroups.
func (e *Engine) journeyGroups() ([][]JourneyInfo, error) {
	journeys, err := e.scanJourneys()
	if err != nil {
		return nil, err
	}

	var groups [][]JourneyInfo
	used := make([]bool, len(journeys))
	for i, anchor := range journeys {
		if used[i] {
			continue
		}
		group := []JourneyInfo{anchor.info}
		for j := i + 1; j < len(journeys); j++ {
			if used[j] {
				continue
			}
			other := journeys[j]
			topicSim := keyword.Similarity(anchor.info.Topic, other.info.Topic)
			overlap := anchor.keys.Overlap(other.keys)
			jaccard := keyword.Jaccard(anchor.keys, other.keys)
			if topicSim >= e.topicThreshold || jaccard >= e.keywordThreshold || overlap >= e.minOverlap {
				group = append(group, other.info)
				used[j] = true
			}
		}
		if len(group) > 1 {
			used[i] = true
			groups = append(groups, group)
		}
	}
	return groups, nil
}

type scannedJourney struct {
	info JourneyInfo
	keys keyword.Set
}

func (e *Engine) scanJourneys() ([]scannedJourney, error) {
	root := filepath.Join(e.baseDir, journey.Dir)
	categories, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading journey root: %w", err)
	}

	var journeys []scannedJourney
	for _, cat := range categories {
		if !cat.IsDir() || strings.HasPrefix(cat.Name(), "_") || strings.HasPrefix(cat.Name(), ".") {
			continue
		}
		topics, err := os.ReadDir(filepath.Join(root, cat.Name()))
		if err != nil {
			continue
		}
		for _, topic := range topics {
			if !topic.IsDir() || strings.HasPrefix(topic.Name(), "_") || strings.HasPrefix(topic.Name(), ".") {
				continue
			}
			dir := filepath.Join(root, cat.Name(), topic.Name())
			m := meta.Read(dir)

			name := m.Topic
			if name == "" {
				name = topic.Name()
			}
			keys := keyword.NewSet(m.Keywords...)

			journeys = append(journeys, scannedJourney{
				info: JourneyInfo{
					Topic:    name,
					Category: cat.Name(),
					Keywords: keys.Sorted(0),
					Entries:  countEntries(dir),
				},
				keys: keys,
			})
		}
	}
	return journeys, nil
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

// crossReference compares the index against the filesystem: references to
// missing files, journey entries missing from the index, and pattern
// sources that no longer exist.
func (e *Engine) crossReference(r *Report) error {
	idx := e.store.Load()

	indexed := keyword.Set{}
	for rel := range idx.Files {
		indexed.Add(rel)
		if _, err := os.Stat(filepath.Join(e.baseDir, filepath.FromSlash(rel))); err != nil {
			r.OrphanedRefs = append(r.OrphanedRefs, rel)
		}
	}
	sort.Strings(r.OrphanedRefs)

	entries, err := e.journeys.ScanEntries()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !indexed.Has(entry.RelPath) {
			r.UnindexedFiles = append(r.UnindexedFiles, entry.RelPath)
		}
	}
	sort.Strings(r.UnindexedFiles)

	sources := keyword.Set{}
	for _, p := range idx.Patterns {
		if p.Source != "" {
			sources.Add(p.Source)
		}
	}
	for src := range sources {
		if _, err := os.Stat(filepath.Join(e.baseDir, filepath.FromSlash(src))); err != nil {
			r.OrphanedPatternSources = append(r.OrphanedPatternSources, src)
		}
	}
	sort.Strings(r.OrphanedPatternSources)
	return nil
}

var ledgerRefRe = regexp.MustCompile(`(?m)^\s*-\s+(\S+\.md)\s*$`)

// ledgerOrphans cross-checks the commit ledger's knowledge references. The
// ledger is written by external tooling, so a missing file is only reported,
// never fixed.
func (e *Engine) ledgerOrphans() []string {
	data, err := os.ReadFile(filepath.Join(e.baseDir, LedgerFile))
	if err != nil {
		return nil
	}

	var orphans []string
	seen := keyword.Set{}
	for _, m := range ledgerRefRe.FindAllStringSubmatch(string(data), -1) {
		ref := filepath.ToSlash(m[1])
		if seen.Has(ref) {
			continue
		}
		seen.Add(ref)

		found := false
		for _, base := range []string{"", journey.Dir, fact.Dir} {
			if _, err := os.Stat(filepath.Join(e.baseDir, base, filepath.FromSlash(ref))); err == nil {
				found = true
				break
			}
		}
		if !found {
			orphans = append(orphans, ref)
		}
	}
	sort.Strings(orphans)
	return orphans
}
