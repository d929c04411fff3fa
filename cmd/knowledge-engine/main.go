// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the knowledge-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the knowledge-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "knowledge-engine",
	Short: "Local markdown knowledge base with a derived search index",
	Long: `knowledge-engine maintains a local knowledge base of markdown files:
standalone facts, journey directories of timestamped work-in-progress
entries, and classified patterns extracted from entry content. A single
JSON index derived from the files supports duplicate detection and
pattern search; audit and rebuild keep it honest.

Each operation group is a subcommand: fact, journey, pattern, audit,
rebuild, export, and reset.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./knowledge-engine.yaml or ~/.config/knowledge-engine/config.yaml)")
	rootCmd.PersistentFlags().String("base-dir", "", "knowledge base root directory (default: knowledge)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("knowledge-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "knowledge-engine"))
		}
	}

	viper.SetEnvPrefix("KNOWLEDGE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// knowledgeConfig resolves the effective configuration: defaults, then the
// viper config file and environment, then the base-dir flag.
func knowledgeConfig(cmd *cobra.Command) (types.KnowledgeConfig, error) {
	cfg := types.NewDefaultKnowledgeConfig()

	if v := viper.GetString("base_dir"); v != "" {
		cfg.BaseDir = v
	}
	if v := viper.GetFloat64("fact_similarity"); v > 0 {
		cfg.FactSimilarity = v
	}
	if v := viper.GetFloat64("audit_similarity"); v > 0 {
		cfg.AuditSimilarity = v
	}
	if v := viper.GetFloat64("topic_similarity"); v > 0 {
		cfg.TopicSimilarity = v
	}
	if v := viper.GetFloat64("journey_similarity"); v > 0 {
		cfg.JourneySimilarity = v
	}
	if v := viper.GetInt("keyword_overlap"); v > 0 {
		cfg.KeywordOverlap = v
	}

	if baseDir, _ := cmd.Flags().GetString("base-dir"); baseDir != "" {
		cfg.BaseDir = baseDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
