// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-engine/internal/index"
	"github.com/pdiddy/knowledge-engine/internal/pattern"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Extract, list, and search patterns",
	Long: `Pattern works with the classified lessons extracted from journey
entries: solutions, tried-failed attempts, gotchas, and best practices.
Extracted patterns live in the index and are replaced as a unit whenever
their source entry is re-extracted.`,
}

// --- extract subcommand ---

var patternExtractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract patterns from an entry file and index them",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternExtract,
}

func runPatternExtract(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading entry file: %w", err)
	}

	patterns := pattern.Extract(string(data))
	store := index.NewStore(cfg.BaseDir)
	count, err := store.IndexPatterns(args[0], patterns)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"success":  true,
		"source":   store.Rel(args[0]),
		"patterns": patterns,
		"count":    count,
	})
}

// --- list subcommand ---

var patternListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed patterns",
	RunE:  runPatternList,
}

func runPatternList(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	ptype, _ := cmd.Flags().GetString("type")
	if ptype != "" && !types.PatternType(ptype).Valid() {
		return fmt.Errorf("unknown pattern type %q: use solution, tried-failed, gotcha, or best-practice", ptype)
	}
	search, _ := cmd.Flags().GetString("search")

	idx := index.NewStore(cfg.BaseDir).Load()
	patterns := index.Filter(idx, types.PatternType(ptype), search)

	asText, _ := cmd.Flags().GetBool("text")
	if asText {
		fmt.Println(formatPatterns(patterns))
		return nil
	}
	if patterns == nil {
		patterns = []types.PatternRecord{}
	}
	return printJSON(patterns)
}

// --- search subcommand ---

var patternSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search patterns by keyword relevance",
	Long: `Search ranks patterns against the query by keyword overlap. A hit in
the pattern text counts double a hit in its context line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPatternSearch,
}

func runPatternSearch(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	idx := index.NewStore(cfg.BaseDir).Load()
	results := index.Search(idx, strings.Join(args, " "), limit)
	if results == nil {
		results = []index.ScoredPattern{}
	}
	return printJSON(results)
}

// formatPatterns renders patterns grouped by type in display order.
func formatPatterns(patterns []types.PatternRecord) string {
	if len(patterns) == 0 {
		return "No patterns found."
	}

	byType := map[types.PatternType][]types.PatternRecord{}
	for _, p := range patterns {
		byType[p.Type] = append(byType[p.Type], p)
	}

	icons := map[types.PatternType]string{
		types.PatternSolution:     "✅",
		types.PatternTriedFailed:  "❌",
		types.PatternGotcha:       "⚠️",
		types.PatternBestPractice: "💡",
	}

	var b strings.Builder
	for _, ptype := range types.PatternTypes {
		group := byType[ptype]
		if len(group) == 0 {
			continue
		}
		label := titleCase(strings.ReplaceAll(string(ptype), "-", " "))
		fmt.Fprintf(&b, "\n%s %s:\n", icons[ptype], label)
		for _, p := range group {
			line := "  - " + p.Text
			if p.Source != "" {
				stem := strings.TrimSuffix(filepath.Base(p.Source), ".md")
				line += " (" + stem + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func init() {
	patternListCmd.Flags().String("type", "", "filter by type: solution, tried-failed, gotcha, best-practice")
	patternListCmd.Flags().String("search", "", "filter by substring of pattern text or context")
	patternListCmd.Flags().Bool("text", false, "render grouped text instead of JSON")
	patternSearchCmd.Flags().Int("limit", 10, "maximum results (0 = unlimited)")

	patternCmd.AddCommand(patternExtractCmd)
	patternCmd.AddCommand(patternListCmd)
	patternCmd.AddCommand(patternSearchCmd)
	rootCmd.AddCommand(patternCmd)
}
