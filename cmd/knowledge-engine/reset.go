// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-engine/internal/layout"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the knowledge base to factory defaults",
	Long: `Reset clears every journey, fact, and savepoint and writes a fresh
empty index. Without a flag it only reports what would be removed.
Use --archive to copy the whole base directory aside first, or --force
to reset without an archive.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}
	archive, _ := cmd.Flags().GetBool("archive")
	force, _ := cmd.Flags().GetBool("force")
	if archive && force {
		return fmt.Errorf("--archive and --force are mutually exclusive")
	}

	l := layout.New(cfg.BaseDir)
	report := l.Collect()

	if !archive && !force {
		fmt.Println(renderResetReport(report))
		return nil
	}

	archived, err := l.Reset(archive)
	if err != nil {
		return err
	}
	if archived != "" {
		fmt.Fprintf(os.Stderr, "Archived to: %s\n", archived)
	}
	return printJSON(map[string]any{
		"success":  true,
		"removed":  report.Total(),
		"archived": archived,
	})
}

func renderResetReport(r layout.ResetReport) string {
	var b strings.Builder
	rule := strings.Repeat("─", 50)

	fmt.Fprintf(&b, "# Knowledge Base Reset\n\n%s\n\n## Items to be Reset\n\n", rule)
	if r.Total() == 0 {
		b.WriteString("  _Knowledge base is already empty._\n\nNothing to reset.")
		return b.String()
	}

	fmt.Fprintf(&b, "### Journeys (%d)\n", len(r.Journeys))
	for _, j := range r.Journeys {
		fmt.Fprintf(&b, "  • %s (%d entries)\n", j.Path, j.Entries)
	}
	fmt.Fprintf(&b, "\n### Facts (%d)\n", len(r.Facts))
	for _, f := range r.Facts {
		fmt.Fprintf(&b, "  • %s\n", f)
	}
	fmt.Fprintf(&b, "\n### Savepoints (%d)\n", len(r.Savepoints))
	for _, sp := range r.Savepoints {
		fmt.Fprintf(&b, "  • %s\n", sp)
	}

	fmt.Fprintf(&b, "\n%s\n\n**Total items:** %d\n\n", rule, r.Total())
	b.WriteString("Re-run with --archive to archive first, or --force to reset permanently.")
	return b.String()
}

func init() {
	resetCmd.Flags().Bool("archive", false, "archive the base directory before resetting")
	resetCmd.Flags().Bool("force", false, "reset without archiving")
	rootCmd.AddCommand(resetCmd)
}
