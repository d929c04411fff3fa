// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-engine/internal/journey"
	"github.com/pdiddy/knowledge-engine/internal/layout"
)

var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Manage journeys and their entries",
	Long: `Journey manages the directories of timestamped work-in-progress entries
under journey/<category>/<topic>/. Entries are immutable once written;
metadata and the index are updated alongside each write.`,
}

// --- entry subcommand ---

var journeyEntryCmd = &cobra.Command{
	Use:   "entry <category> <topic>",
	Short: "Create a journey entry from a file or stdin",
	Long: `Entry writes a new timestamped entry into the journey, creating the
journey on first use. The entry content is read from --file, or from
stdin when no file is given. Patterns found in the content are extracted
and indexed immediately.`,
	Args: cobra.ExactArgs(2),
	RunE: runJourneyEntry,
}

func runJourneyEntry(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	content, err := entryContent(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("empty entry content: provide --file or pipe content on stdin")
	}

	slug, _ := cmd.Flags().GetString("slug")
	category := journey.NormalizeTopic(args[0])
	topic := journey.NormalizeTopic(args[1])
	if category == "" || topic == "" {
		return fmt.Errorf("category and topic must contain at least one word character")
	}

	res, err := journey.NewManager(cfg.BaseDir).CreateEntry(category, topic, content, slug)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func entryContent(cmd *cobra.Command) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading entry file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// --- meta subcommand ---

var journeyMetaCmd = &cobra.Command{
	Use:   "meta <category> <topic> <keywords>",
	Short: "Create or update a journey's metadata",
	Long: `Meta creates or updates the journey's metadata block. Keywords are
comma-separated and are unioned with any existing ones; a keyword once
recorded is never removed by an update.`,
	Args: cobra.ExactArgs(3),
	RunE: runJourneyMeta,
}

func runJourneyMeta(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	category := journey.NormalizeTopic(args[0])
	topic := journey.NormalizeTopic(args[1])
	var keywords []string
	for _, k := range strings.Split(args[2], ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	description, _ := cmd.Flags().GetString("description")
	if err := journey.NewManager(cfg.BaseDir).UpsertMeta(category, topic, keywords, description); err != nil {
		return err
	}
	return printJSON(map[string]any{
		"success":  true,
		"category": category,
		"topic":    topic,
	})
}

// --- merge subcommand ---

var journeyMergeCmd = &cobra.Command{
	Use:   "merge <main-topic> <other-topic>...",
	Short: "Merge journeys into one",
	Long: `Merge copies every entry from the other journeys into the main one,
renaming entries on filename collision and unioning the keyword sets.
Source directories are left in place: verify the merged journey, then
remove them (or roll back from a savepoint) as a separate step.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runJourneyMerge,
}

func runJourneyMerge(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	targetDir := ""
	if category, _ := cmd.Flags().GetString("category"); category != "" {
		category = journey.NormalizeTopic(category)
		targetDir = filepath.Join(cfg.BaseDir, journey.Dir, category, journey.NormalizeTopic(args[0]))
	}

	res, err := journey.NewManager(cfg.BaseDir).Merge(args[0], args[1:], targetDir)
	if err != nil {
		return err
	}

	if len(res.LeftBehind) > 0 {
		fmt.Fprintln(os.Stderr, "Source directories left in place (remove after verifying the merge):")
		for _, dir := range res.LeftBehind {
			fmt.Fprintf(os.Stderr, "  %s\n", dir)
		}
	}
	return printJSON(res)
}

// --- move subcommand ---

var journeyMoveCmd = &cobra.Command{
	Use:   "move <topic> <new-category>",
	Short: "Move a journey to a different category",
	Long: `Move relocates a journey directory under a new category. The index is
not repaired by the move; run rebuild afterwards to re-key the entries.`,
	Args: cobra.ExactArgs(2),
	RunE: runJourneyMove,
}

func runJourneyMove(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	oldPath, newPath, err := journey.NewManager(cfg.BaseDir).Move(args[0], journey.NormalizeTopic(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Run `knowledge-engine rebuild` to update the index for the moved entries.")
	return printJSON(map[string]any{
		"success": true,
		"from":    oldPath,
		"to":      newPath,
	})
}

// --- backup / rollback subcommands ---

var journeyBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the journey tree into a savepoint",
	RunE:  runJourneyBackup,
}

func runJourneyBackup(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	path, err := layout.New(cfg.BaseDir).Backup()
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"success":   true,
		"savepoint": path,
	})
}

var journeyRollbackCmd = &cobra.Command{
	Use:   "rollback <savepoint>",
	Short: "Restore the journey tree from a savepoint",
	Long: `Rollback replaces the entire journey tree with the named savepoint's
contents. The current tree is discarded. Run rebuild afterwards so the
index matches the restored files.`,
	Args: cobra.ExactArgs(1),
	RunE: runJourneyRollback,
}

func runJourneyRollback(cmd *cobra.Command, args []string) error {
	cfg, err := knowledgeConfig(cmd)
	if err != nil {
		return err
	}

	l := layout.New(cfg.BaseDir)
	if err := l.Rollback(args[0]); err != nil {
		available := l.Savepoints()
		if len(available) > 0 {
			fmt.Fprintf(os.Stderr, "Available savepoints: %s\n", strings.Join(available, ", "))
		}
		return err
	}
	fmt.Fprintln(os.Stderr, "Run `knowledge-engine rebuild` to update the index for the restored entries.")
	return printJSON(map[string]any{
		"success":   true,
		"savepoint": args[0],
	})
}

func init() {
	journeyEntryCmd.Flags().String("file", "", "read entry content from this file instead of stdin")
	journeyEntryCmd.Flags().String("slug", "", "filename slug (derived from the first heading if empty)")
	journeyMetaCmd.Flags().String("description", "", "one-line journey description")
	journeyMergeCmd.Flags().String("category", "", "category for the merged journey (default: where the main topic lives)")

	journeyCmd.AddCommand(journeyEntryCmd)
	journeyCmd.AddCommand(journeyMetaCmd)
	journeyCmd.AddCommand(journeyMergeCmd)
	journeyCmd.AddCommand(journeyMoveCmd)
	journeyCmd.AddCommand(journeyBackupCmd)
	journeyCmd.AddCommand(journeyRollbackCmd)
	rootCmd.AddCommand(journeyCmd)
}
