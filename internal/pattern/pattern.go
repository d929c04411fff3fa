// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern scrapes typed lesson records out of journey entry
// markdown. It is a best-effort structured-data scraper over a line-level
// grammar, not a markdown parser: lines that do not match the expected
// shape are silently skipped.
package pattern

import (
	"regexp"
	"strings"

	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// DefaultConfidence is assigned to every extracted pattern.
const DefaultConfidence = 0.9

// bodyRe matches a pattern line inside a recognized section:
//
//	- **<text>** - context: <keywords>
//	- **<text>** - Failed because: <reason> - context: <keywords>
var bodyRe = regexp.MustCompile(
	`^-\s+\*\*(.+?)\*\*\s*-\s*(?:Failed because:\s*(.+?)\s*-\s*)?context:\s*(.+)$`)

// contextRe captures the keyword list from any line carrying a
// "context:" anchor, stopping at a following " -" or end of line.
var contextRe = regexp.MustCompile(`(?i)context:\s*(.+?)(?:\s*$|\s*-)`)

// sectionType classifies a heading line, matched by substring rather than
// strict heading syntax so emoji-decorated and plain headings both work.
func sectionType(line string) (types.PatternType, bool) {
	switch {
	case strings.Contains(line, "### ✅") || strings.Contains(line, "Solutions Found"):
		return types.PatternSolution, true
	case strings.Contains(line, "### ❌") || strings.Contains(line, "Tried But Failed"):
		return types.PatternTriedFailed, true
	case strings.Contains(line, "### ⚠️") || strings.Contains(line, "Gotchas"):
		return types.PatternGotcha, true
	case strings.Contains(line, "### ") && strings.Contains(line, "Best"):
		return types.PatternBestPractice, true
	}
	return "", false
}

// Extract scans entry content top to bottom, tracking the current section
// type and emitting one record per matching body line. For tried-failed
// patterns the failure reason is folded into the text. Source and Added
// are left for the caller to fill.
func Extract(content string) []types.PatternRecord {
	var patterns []types.PatternRecord
	var current types.PatternType

	for _, line := range strings.Split(content, "\n") {
		if t, ok := sectionType(line); ok {
			current = t
		} else if strings.HasPrefix(line, "## ") && current != "" {
			// A new top-level section ends pattern collection unless it is
			// itself pattern-related.
			if !strings.Contains(line, "Solutions") && !strings.Contains(line, "Pattern") {
				current = ""
			}
		}

		if current == "" {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- **") {
			continue
		}
		m := bodyRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		text := strings.TrimSpace(m[1])
		reason := strings.TrimSpace(m[2])
		context := strings.TrimSpace(m[3])

		if current == types.PatternTriedFailed && reason != "" {
			text = text + " - " + reason
		}

		patterns = append(patterns, types.PatternRecord{
			Type:       current,
			Text:       text,
			Context:    context,
			Confidence: DefaultConfidence,
		})
	}

	return patterns
}

// ContextLine extracts the raw keyword list from a line containing a
// "context:" anchor (case-insensitive). Returns false when the line has
// no anchor.
func ContextLine(line string) (string, bool) {
	if !strings.Contains(strings.ToLower(line), "context:") {
		return "", false
	}
	m := contextRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SplitContext splits a comma-separated context string into trimmed,
// non-empty keywords.
func SplitContext(context string) []string {
	var out []string
	for _, k := range strings.Split(context, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
