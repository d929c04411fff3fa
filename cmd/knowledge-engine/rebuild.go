// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-engine/internal/rebuild"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the files on disk",
	Long: `Rebuild discards the current index and reconstructs it by scanning
every fact and journey file. Placeholder patterns left over from entry
templates are dropped. This is the repair tool for orphaned or
unindexed entries reported by audit.`,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	summary, err := rebuild.NewEngine(cfg.BaseDir).Run()
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
