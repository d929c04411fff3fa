// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journey manages journey directories and their entries: creation,
// metadata upkeep, merging, and moving. Every entry write updates the
// journey's metadata and the index together.
package journey

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/keyword"
	"github.com/pdiddy/knowledge-engine/internal/meta"
	"github.com/pdiddy/knowledge-engine/internal/pattern"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// Dir is the journey directory name under the knowledge base root.
const Dir = "journey"

const (
	// EntryTimeLayout is the timestamp prefix on entry filenames.
	EntryTimeLayout = "2006-01-02-15-04"

	slugWords        = 4
	slugLimit        = 40
	titleLimit       = 80
	metaKeywordLimit = 15
)

// FileKeywordLimit caps the keywords indexed per journey entry.
const FileKeywordLimit = 20

var (
	slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	topicSepRe  = regexp.MustCompile(`[\s_]+`)
	topicCharRe = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRunRe = regexp.MustCompile(`-+`)
)

// Manager operates on the journey tree of one knowledge base.
type Manager struct {
	baseDir string
	store   *index.Store
	now     func() time.Time
}

// NewManager returns a Manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{
		baseDir: baseDir,
		store:   index.NewStore(baseDir),
		now:     time.Now,
	}
}

func (m *Manager) dir() string {
	return filepath.Join(m.baseDir, Dir)
}

// NormalizeTopic converts a raw topic name to kebab-case: lowercase, spaces
// and underscores become hyphens, other punctuation is dropped, hyphen runs
// collapse.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(topic)
	t = topicSepRe.ReplaceAllString(t, "-")
	t = topicCharRe.ReplaceAllString(t, "")
	t = hyphenRunRe.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}

// EntrySlug derives a filename slug from entry content: the first "# "
// heading with any "WIP:" prefix stripped, reduced to at most four words
// and forty characters. Content with no heading yields "entry".
func EntrySlug(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		title := strings.TrimSpace(line[2:])
		if strings.HasPrefix(strings.ToLower(title), "wip:") {
			title = strings.TrimSpace(title[4:])
		}
		words := strings.Fields(slugStripRe.ReplaceAllString(strings.ToLower(title), ""))
		if len(words) > slugWords {
			words = words[:slugWords]
		}
		if slug := strings.Join(words, "-"); slug != "" {
			return clipSlug(slug)
		}
		break
	}
	return "entry"
}

func clipSlug(slug string) string {
	if len(slug) > slugLimit {
		slug = slug[:slugLimit]
	}
	return slug
}

// Find locates a journey directory by topic, searching the journey root and
// every category subdirectory. It returns the directory path and its
// category ("" for root-level journeys).
func (m *Manager) Find(topic string) (path, category string, ok bool) {
	root := m.dir()

	candidate := filepath.Join(root, topic)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate, "", true
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") ||
			strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidate := filepath.Join(root, entry.Name(), topic)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, entry.Name(), true
		}
	}
	return "", "", false
}

// Categories lists the category directories under the journey root.
func (m *Manager) Categories() []string {
	entries, err := os.ReadDir(m.dir())
	if err != nil {
		return nil
	}
	var cats []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), "_") &&
			!strings.HasPrefix(entry.Name(), ".") {
			cats = append(cats, entry.Name())
		}
	}
	return cats
}

// CreateEntry writes a new timestamped entry under category/topic, creating
// the journey on first use. It unions the entry's context keywords into the
// journey metadata, extracts and indexes the entry's patterns, and records
// the entry in the index.
func (m *Manager) CreateEntry(category, topic, content, slug string) (types.EntryResult, error) {
	topicDir := filepath.Join(m.dir(), category, topic)
	if err := os.MkdirAll(topicDir, 0o755); err != nil {
		return types.EntryResult{}, fmt.Errorf("creating journey directory: %w", err)
	}

	ts := m.now()
	prefix := ts.Format(EntryTimeLayout)
	if slug == "" {
		slug = EntrySlug(content)
	}
	slug = clipSlug(slug)

	path := filepath.Join(topicDir, prefix+"-"+slug+".md")
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(topicDir, fmt.Sprintf("%s-%s-%d.md", prefix, slug, n))
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return types.EntryResult{}, fmt.Errorf("writing entry file: %w", err)
	}

	keys := entryKeywords(content, topic)

	if err := m.UpsertMeta(category, topic, keys.Sorted(metaKeywordLimit), ""); err != nil {
		return types.EntryResult{}, err
	}

	patterns := pattern.Extract(content)
	indexed, err := m.store.IndexPatterns(path, patterns)
	if err != nil {
		return types.EntryResult{}, err
	}

	rel := Dir + "/" + category + "/" + topic + "/" + filepath.Base(path)
	idx := m.store.Load()
	idx.Files[rel] = types.FileDescriptor{
		Title:    entryTitle(content, filepath.Base(path)),
		Category: category,
		Date:     ts.Format("2006-01-02"),
		Status:   types.StatusInProgress,
		Keywords: keys.Sorted(FileKeywordLimit),
	}
	if err := m.store.Save(idx); err != nil {
		return types.EntryResult{}, err
	}

	return types.EntryResult{
		Success:         true,
		File:            path,
		Category:        category,
		Topic:           topic,
		PatternsIndexed: indexed,
	}, nil
}

// entryKeywords collects keywords for an entry: every comma-separated value
// on its "context:" lines plus the topic's own words.
func entryKeywords(content, topic string) keyword.Set {
	keys := keyword.Set{}
	for _, line := range strings.Split(content, "\n") {
		ctx, ok := pattern.ContextLine(line)
		if !ok {
			continue
		}
		for _, k := range pattern.SplitContext(ctx) {
			if k = pattern.CleanKeyword(k); k != "" && !pattern.IsPlaceholderKeyword(k) {
				keys.Add(k)
			}
		}
	}
	for _, w := range strings.Split(topic, "-") {
		if w != "" {
			keys.Add(w)
		}
	}
	return keys
}

func entryTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			title := strings.TrimSpace(line[2:])
			if len(title) > titleLimit {
				title = title[:titleLimit]
			}
			return title
		}
	}
	return strings.TrimSuffix(fallback, ".md")
}

// UpsertMeta creates or updates a journey's metadata block. Existing
// keywords are unioned with the incoming ones and never removed; the
// last-updated stamp is always bumped. An empty description leaves any
// existing one alone, defaulting on first write.
func (m *Manager) UpsertMeta(category, topic string, keywords []string, description string) error {
	topicDir := filepath.Join(m.dir(), category, topic)
	if err := os.MkdirAll(topicDir, 0o755); err != nil {
		return fmt.Errorf("creating journey directory: %w", err)
	}

	stamp := m.now().Format(types.MetaTimeLayout)
	existing := meta.Read(topicDir)

	merged := existing
	if merged.Topic == "" {
		merged.Topic = topic
	}
	if merged.Status == "" {
		merged.Status = types.StatusActive
	}
	if merged.Created == "" {
		merged.Created = stamp
	}
	merged.LastUpdated = stamp
	merged.Keywords = keyword.NewSet(append(existing.Keywords, keywords...)...).Sorted(0)
	if description != "" {
		merged.Description = description
	}
	if merged.Description == "" {
		merged.Description = "Work in progress on " + strings.ReplaceAll(topic, "-", " ")
	}

	if err := meta.Write(topicDir, merged); err != nil {
		return fmt.Errorf("writing journey metadata: %w", err)
	}
	return nil
}

// ScanEntries walks the journey tree and returns every entry file, skipping
// metadata files and hidden directories.
func (m *Manager) ScanEntries() ([]types.EntryInfo, error) {
	root := m.dir()
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var entries []types.EntryInfo
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == meta.FileName || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return rerr
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		info := types.EntryInfo{
			RelPath: Dir + "/" + filepath.ToSlash(rel),
			Title:   filepath.Base(path),
		}
		// journey/<category>/<topic>/<entry> or journey/<topic>/<entry>
		switch {
		case len(parts) >= 3:
			info.Category = parts[0]
			info.Topic = parts[1]
		case len(parts) == 2:
			info.Topic = parts[0]
		}
		if ds := datePrefix(d.Name()); ds != "" {
			info.Date = ds
		}
		if data, rerr := os.ReadFile(path); rerr == nil {
			info.Title = entryTitle(string(data), d.Name())
		}
		entries = append(entries, info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning journey tree: %w", err)
	}
	return entries, nil
}

var datePrefixRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

func datePrefix(name string) string {
	if m := datePrefixRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// Move relocates a journey directory to a new category. The index is not
// repaired; a rebuild re-keys the moved entries.
func (m *Manager) Move(topic, newCategory string) (oldPath, newPath string, err error) {
	src, _, ok := m.Find(topic)
	if !ok {
		return "", "", fmt.Errorf("journey %q not found", topic)
	}

	dst := filepath.Join(m.dir(), newCategory, topic)
	if _, err := os.Stat(dst); err == nil {
		return "", "", fmt.Errorf("journey %q already exists in category %q", topic, newCategory)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", fmt.Errorf("creating category directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", "", fmt.Errorf("moving journey: %w", err)
	}
	return src, dst, nil
}
