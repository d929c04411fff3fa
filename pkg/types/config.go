package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// KnowledgeConfig holds settings for the knowledge base.
type KnowledgeConfig struct {
	// BaseDir is the knowledge base root (contains knowledge.json, facts/,
	// journey/, savepoints/).
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// FactSimilarity is the Jaccard threshold for the fact duplicate scan
	// (default 0.5).
	FactSimilarity float64 `json:"fact_similarity" yaml:"fact_similarity"`

	// AuditSimilarity is the Jaccard threshold for grouping redundant facts
	// during audit (default 0.4).
	AuditSimilarity float64 `json:"audit_similarity" yaml:"audit_similarity"`

	// TopicSimilarity is the topic-name similarity threshold for journey
	// consolidation (default 0.5).
	TopicSimilarity float64 `json:"topic_similarity" yaml:"topic_similarity"`

	// JourneySimilarity is the keyword Jaccard threshold for journey
	// consolidation (default 0.4).
	JourneySimilarity float64 `json:"journey_similarity" yaml:"journey_similarity"`

	// KeywordOverlap is the raw shared-keyword count treated as equivalent
	// to meeting the ratio threshold for large journeys (default 3).
	KeywordOverlap int `json:"keyword_overlap" yaml:"keyword_overlap"`
}

// Validate checks the configuration for usable values.
func (c *KnowledgeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseDir, validation.Required),
		validation.Field(&c.FactSimilarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.AuditSimilarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.TopicSimilarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.JourneySimilarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.KeywordOverlap, validation.Min(1)),
	)
}

// NewDefaultKnowledgeConfig returns a KnowledgeConfig with the stock
// thresholds and limits.
func NewDefaultKnowledgeConfig() KnowledgeConfig {
	return KnowledgeConfig{
		BaseDir:           "knowledge",
		FactSimilarity:    0.5,
		AuditSimilarity:   0.4,
		TopicSimilarity:   0.5,
		JourneySimilarity: 0.4,
		KeywordOverlap:    3,
	}
}
