// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fact saves, indexes, and scans fact files, the single-statement
// knowledge records stored under facts/. Each save indexes the new file
// immediately so duplicate checks see it without a rebuild.
package fact

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/keyword"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// Dir is the fact directory name under the knowledge base root.
const Dir = "facts"

// KeywordLimit caps the keywords indexed per fact.
const KeywordLimit = 15

const (
	titleLimit   = 60
	excerptLimit = 100
	slugWords    = 5
	slugLimit    = 50
)

var slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// Engine saves and queries facts for one knowledge base.
type Engine struct {
	baseDir string
	store   *index.Store
	now     func() time.Time
}

// NewEngine returns an Engine rooted at baseDir.
func NewEngine(baseDir string) *Engine {
	return &Engine{
		baseDir: baseDir,
		store:   index.NewStore(baseDir),
		now:     time.Now,
	}
}

func (e *Engine) dir() string {
	return filepath.Join(e.baseDir, Dir)
}

// Slug derives a filename slug from fact text: the first five words with
// punctuation stripped, hyphen-joined and capped at fifty characters.
func Slug(text string) string {
	words := strings.Fields(slugStripRe.ReplaceAllString(strings.ToLower(text), ""))
	if len(words) > slugWords {
		words = words[:slugWords]
	}
	slug := strings.Join(words, "-")
	if slug == "" {
		return "fact"
	}
	if len(slug) > slugLimit {
		slug = slug[:slugLimit]
	}
	return slug
}

// Save writes a new fact file named <date>-<slug>.md, disambiguating name
// collisions with a numeric suffix, then indexes it. It returns the path of
// the file written.
func (e *Engine) Save(text, slug string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty fact text")
	}
	if err := os.MkdirAll(e.dir(), 0o755); err != nil {
		return "", fmt.Errorf("creating facts directory: %w", err)
	}

	ts := e.now()
	if slug == "" {
		slug = Slug(text)
	}
	prefix := ts.Format("2006-01-02")

	path := filepath.Join(e.dir(), prefix+"-"+slug+".md")
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(e.dir(), fmt.Sprintf("%s-%s-%d.md", prefix, slug, n))
	}

	title := text
	if len(title) > titleLimit {
		title = title[:titleLimit] + "..."
	}
	content := fmt.Sprintf("# Fact: %s\n\n## Date: %s\n\n%s\n",
		title, ts.Format(types.MetaTimeLayout), text)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing fact file: %w", err)
	}
	if _, err := e.Index(path); err != nil {
		return "", err
	}
	return path, nil
}

// Index records one fact file in the index: title from its "# Fact:"
// heading, keywords from its body. It returns the keyword count.
func (e *Engine) Index(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading fact file: %w", err)
	}
	content := string(data)

	title := Title(content, strings.TrimSuffix(filepath.Base(path), ".md"))
	if len(title) > titleLimit {
		title = title[:titleLimit]
	}

	keys := keyword.Identifiers(Body(content), KeywordLimit)
	if keys == nil {
		keys = []string{}
	}

	idx := e.store.Load()
	idx.Files[Dir+"/"+filepath.Base(path)] = types.FileDescriptor{
		Title:    "Fact: " + title,
		Modified: e.store.Timestamp(),
		Keywords: keys,
	}
	if err := e.store.Save(idx); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Title returns the text of the "# Fact:" heading, or fallback when the
// file has none.
func Title(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# Fact:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# Fact:"))
		}
	}
	return fallback
}

// Body returns the fact text: every line after the "## Date:" heading,
// joined with spaces.
func Body(content string) string {
	var b strings.Builder
	capture := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## Date:") {
			capture = true
			continue
		}
		if capture {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// StoredFact is one fact file read off disk.
type StoredFact struct {
	Name  string // filename
	Rel   string // path relative to the knowledge base root
	Path  string
	Title string
	Text  string // body text
}

// Scan reads every fact file under facts/. Unreadable files are skipped.
func (e *Engine) Scan() ([]StoredFact, error) {
	entries, err := os.ReadDir(e.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading facts directory: %w", err)
	}

	var facts []StoredFact
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") ||
			!strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(e.dir(), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)
		facts = append(facts, StoredFact{
			Name:  entry.Name(),
			Rel:   Dir + "/" + entry.Name(),
			Path:  path,
			Title: Title(content, strings.TrimSuffix(entry.Name(), ".md")),
			Text:  Body(content),
		})
	}
	return facts, nil
}

// FindSimilar compares text against every stored fact and returns those at
// or above the similarity threshold, most similar first.
func (e *Engine) FindSimilar(text string, threshold float64) ([]types.SimilarFact, error) {
	facts, err := e.Scan()
	if err != nil {
		return nil, err
	}

	var similar []types.SimilarFact
	for _, f := range facts {
		if f.Text == "" {
			continue
		}
		sim := keyword.Similarity(text, f.Text)
		if sim < threshold {
			continue
		}
		excerpt := f.Text
		if len(excerpt) > excerptLimit {
			excerpt = excerpt[:excerptLimit] + "..."
		}
		similar = append(similar, types.SimilarFact{
			File:       f.Name,
			Path:       f.Path,
			Text:       excerpt,
			Similarity: math.Round(sim*100) / 100,
		})
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	return similar, nil
}
