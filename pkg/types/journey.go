// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Journey statuses.
const (
	StatusActive     = "active"
	StatusInProgress = "in_progress"
)

// MetaTimeLayout is the timestamp layout used in journey _meta.md files.
const MetaTimeLayout = "2006-01-02 15:04"

// Meta is the parsed contents of a journey's _meta.md key:value block.
// Writing regenerates the whole file from this structure, so keys added by
// hand outside the recognized set do not survive a round trip.
type Meta struct {
	// Topic is the journey's kebab-case identity within its category.
	Topic string `json:"topic" yaml:"topic"`

	// Status is the workflow status, "active" until a terminal state is set.
	Status string `json:"status" yaml:"status"`

	// Created is the first-entry timestamp (MetaTimeLayout).
	Created string `json:"created" yaml:"created"`

	// LastUpdated is bumped on every entry write or merge.
	LastUpdated string `json:"last_updated" yaml:"last_updated"`

	// CompletedDate is set when the journey reaches a terminal state.
	// Empty serializes as null in the metadata block.
	CompletedDate string `json:"completed_date,omitempty" yaml:"completed_date,omitempty"`

	// Keywords is the de-duplicated keyword union. It only ever grows.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Description is a one-line summary of the journey's goal.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// MergedFrom records the source topics of a merge, when any.
	MergedFrom []string `json:"merged_from,omitempty" yaml:"merged_from,omitempty"`

	// MergeDate is the timestamp of the merge that produced this journey.
	MergeDate string `json:"merge_date,omitempty" yaml:"merge_date,omitempty"`
}

// EntryInfo describes one journey entry file found on disk.
type EntryInfo struct {
	// RelPath is the path relative to the knowledge base root, with forward
	// slashes.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Title is the first "# " heading, or the filename stem.
	Title string `json:"title" yaml:"title"`

	// Category is the category directory segment of the path.
	Category string `json:"category" yaml:"category"`

	// Topic is the journey directory segment of the path.
	Topic string `json:"topic" yaml:"topic"`

	// Date is the leading 10 characters of the filename when date-shaped.
	Date string `json:"date" yaml:"date"`
}

// EntryResult reports the outcome of creating a journey entry.
type EntryResult struct {
	Success         bool   `json:"success"`
	File            string `json:"file"`
	Category        string `json:"category"`
	Topic           string `json:"topic"`
	PatternsIndexed int    `json:"patterns_indexed"`
}

// SimilarFact is one match from a fact duplicate scan.
type SimilarFact struct {
	// File is the fact filename.
	File string `json:"file"`

	// Path is the full path to the fact file.
	Path string `json:"path"`

	// Text is the fact body, truncated for display.
	Text string `json:"text"`

	// Similarity is the Jaccard score against the query text, in [0,1].
	Similarity float64 `json:"similarity"`
}
