// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-engine/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report redundancy and index drift without changing anything",
	Long: `Audit checks the knowledge base for redundant facts, journeys that
look like the same effort, and index entries out of sync with the files
on disk, including stale references in commit-history.md. It only
reports; rebuild and reset are the repair tools.`,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	engine := audit.NewEngine(cfg.BaseDir)
	engine.Configure(cfg)

	report, err := engine.Run()
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return printJSON(report)
	}
	fmt.Println(audit.Render(report))
	return nil
}

func init() {
	auditCmd.Flags().Bool("json", false, "output the report as JSON")
	rootCmd.AddCommand(auditCmd)
}
