// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"fmt"
	"strings"
)

const maxListed = 5

// Render formats a report as the markdown document printed by the audit
// command.
func Render(r Report) string {
	var b strings.Builder
	rule := strings.Repeat("─", 50)

	fmt.Fprintf(&b, "# Knowledge Base Audit\n\n*Generated: %s*\n\n%s\n", r.Generated, rule)

	b.WriteString("\n## 1. Fact Redundancy Check\n\n")
	if len(r.FactGroups) == 0 {
		b.WriteString("✓ No redundant facts found\n")
	} else {
		fmt.Fprintf(&b, "**Found %d groups of potentially redundant facts:**\n", len(r.FactGroups))
		for i, group := range r.FactGroups {
			fmt.Fprintf(&b, "\n### Group %d (%d facts)\n", i+1, len(group))
			for _, f := range group {
				fmt.Fprintf(&b, "  - `%s`\n    _%s_\n", f.File, f.Text)
			}
			b.WriteString("\n  **Suggestion:** Consolidate into a single fact, delete older ones\n")
		}
	}

	fmt.Fprintf(&b, "\n%s\n\n## 2. Journey Consolidation Opportunities\n\n", rule)
	if len(r.JourneyGroups) == 0 {
		b.WriteString("✓ No consolidation opportunities found\n")
	} else {
		fmt.Fprintf(&b, "**Found %d potential consolidation opportunities:**\n", len(r.JourneyGroups))
		for i, group := range r.JourneyGroups {
			fmt.Fprintf(&b, "\n### Group %d\n", i+1)
			for _, j := range group {
				fmt.Fprintf(&b, "  - `%s/%s/` (%d entries)\n", j.Category, j.Topic, j.Entries)
			}
			b.WriteString("\n  **Suggestion:** Merge into one journey\n")
		}
	}

	fmt.Fprintf(&b, "\n%s\n\n## 3. Index File Cross-Reference\n\n### knowledge.json\n", rule)
	if len(r.OrphanedRefs) == 0 && len(r.UnindexedFiles) == 0 && len(r.OrphanedPatternSources) == 0 {
		b.WriteString("  ✓ All file references valid\n")
		b.WriteString("  ✓ All pattern sources valid\n")
		b.WriteString("  ✓ All journey files indexed\n")
	} else {
		renderRefs(&b, "Orphaned references", "Index references files that no longer exist", r.OrphanedRefs)
		renderRefs(&b, "Unindexed files", "These journey files exist but are not in the index", r.UnindexedFiles)
		renderRefs(&b, "Orphaned pattern sources", "", r.OrphanedPatternSources)
	}

	b.WriteString("\n### commit-history.md\n")
	if len(r.LedgerOrphans) == 0 {
		b.WriteString("  ✓ No orphaned knowledge references\n")
	} else {
		renderRefs(&b, "Orphaned references", "These can be safely removed from commit-history.md", r.LedgerOrphans)
	}

	fmt.Fprintf(&b, "\n%s\n\n## Summary\n\n", rule)
	if r.Issues() == 0 {
		b.WriteString("✅ **Knowledge base is clean - no issues found!**\n")
		return b.String()
	}

	fmt.Fprintf(&b, "⚠️ **Found %d issue(s) to address**\n", r.Issues())
	if r.NeedsRebuild {
		b.WriteString("\n### Recommended: Rebuild Index\n\n")
		b.WriteString("The knowledge.json index is out of sync with actual files.\n")
		if n := len(r.UnindexedFiles); n > 0 {
			fmt.Fprintf(&b, "  - %d journey files exist but aren't indexed\n", n)
		}
		if n := len(r.OrphanedRefs); n > 0 {
			fmt.Fprintf(&b, "  - %d index entries point to missing files\n", n)
		}
		b.WriteString("\n**Run `knowledge-engine rebuild` to fix automatically.**\n")
	}
	return b.String()
}

func renderRefs(b *strings.Builder, heading, hint string, refs []string) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  **⚠️ %s (%d):**\n", heading, len(refs))
	if hint != "" {
		fmt.Fprintf(b, "  _%s_\n", hint)
	}
	for i, ref := range refs {
		if i == maxListed {
			fmt.Fprintf(b, "    _... and %d more_\n", len(refs)-maxListed)
			break
		}
		fmt.Fprintf(b, "    - `%s`\n", ref)
	}
}
