// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-engine/internal/fact"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

var factCmd = &cobra.Command{
	Use:   "fact",
	Short: "Save facts and check for duplicates",
	Long: `Fact manages standalone knowledge notes under facts/. Saving a fact
indexes it immediately; similar finds existing facts that overlap a new
text so duplicates are caught before they are written.`,
}

// --- save subcommand ---

var factSaveCmd = &cobra.Command{
	Use:   "save <text>...",
	Short: "Save a fact to the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFactSave,
}

func runFactSave(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}
	slug, _ := cmd.Flags().GetString("slug")

	path, err := fact.NewEngine(cfg.BaseDir).Save(strings.Join(args, " "), slug)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"success": true,
		"file":    path,
	})
}

// --- similar subcommand ---

var factSimilarCmd = &cobra.Command{
	Use:   "similar <text>...",
	Short: "Find existing facts similar to a text",
	Long: `Similar compares a candidate text against every stored fact using
keyword-set similarity and reports matches at or above the threshold,
most similar first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFactSimilar,
}

func runFactSimilar(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if threshold <= 0 {
		threshold = cfg.FactSimilarity
	}

	query := strings.Join(args, " ")
	similar, err := fact.NewEngine(cfg.BaseDir).FindSimilar(query, threshold)
	if err != nil {
		return err
	}
	if similar == nil {
		similar = []types.SimilarFact{}
	}

	return printJSON(map[string]any{
		"query":     query,
		"threshold": threshold,
		"similar":   similar,
		"count":     len(similar),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	factSaveCmd.Flags().String("slug", "", "filename slug (derived from the text if empty)")
	factSimilarCmd.Flags().Float64("threshold", 0, "similarity threshold in (0,1] (0 = use config default)")

	factCmd.AddCommand(factSaveCmd)
	factCmd.AddCommand(factSimilarCmd)
	rootCmd.AddCommand(factCmd)
}
