// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared across knowledge-engine
// stages: the index document, journey metadata, and configuration.
package types

// IndexVersion is the schema version written into knowledge.json.
const IndexVersion = 1

// PatternType classifies a lesson extracted from a journey entry.
type PatternType string

const (
	PatternSolution     PatternType = "solution"
	PatternTriedFailed  PatternType = "tried-failed"
	PatternGotcha       PatternType = "gotcha"
	PatternBestPractice PatternType = "best-practice"
)

// PatternTypes lists the valid types in display order.
var PatternTypes = []PatternType{
	PatternSolution, PatternTriedFailed, PatternGotcha, PatternBestPractice,
}

// Valid reports whether t is one of the recognized pattern types.
func (t PatternType) Valid() bool {
	for _, pt := range PatternTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// PatternRecord is one classified, reusable lesson in the index's patterns
// list. Records from a given source file are replaced as a unit whenever
// that source is re-extracted.
type PatternRecord struct {
	// Type categorizes the pattern: solution, tried-failed, gotcha, or
	// best-practice.
	Type PatternType `json:"type" yaml:"type"`

	// Text is the pattern statement. For tried-failed patterns the failure
	// reason is folded into the text.
	Text string `json:"text" yaml:"text"`

	// Context is the comma-separated keyword line captured with the pattern.
	Context string `json:"context" yaml:"context"`

	// Confidence is the extraction confidence. Extracted patterns carry a
	// fixed default.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Source is the entry path the pattern was extracted from, relative to
	// the knowledge base root.
	Source string `json:"source" yaml:"source"`

	// Added is the RFC 3339 timestamp of the write that produced this record.
	Added string `json:"added,omitempty" yaml:"added,omitempty"`
}

// FileDescriptor describes one indexed fact or journey entry file.
// Journey entries carry category/date/status; facts carry modified.
type FileDescriptor struct {
	// Title is the first heading of the file, or its stem as a fallback.
	Title string `json:"title" yaml:"title"`

	// Category is the journey category directory segment.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Date is the leading date portion of the filename, when present.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// Status is the journey workflow status at index time.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Modified is the RFC 3339 timestamp of the last index write for facts.
	Modified string `json:"modified,omitempty" yaml:"modified,omitempty"`

	// Keywords is the derived lowercase keyword list.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Index is the whole knowledge.json document. The filesystem is
// authoritative; the index is a derived cache reconstructible from the fact
// and journey files on disk.
type Index struct {
	// Version is the schema version tag.
	Version int `json:"version" yaml:"version"`

	// Updated is the RFC 3339 timestamp of the last write, or null before
	// the first write.
	Updated *string `json:"updated" yaml:"updated"`

	// Files maps knowledge-root-relative paths to their descriptors.
	Files map[string]FileDescriptor `json:"files" yaml:"files"`

	// Patterns is the flat list of extracted pattern records.
	Patterns []PatternRecord `json:"patterns" yaml:"patterns"`
}

// NewIndex returns the default empty index shape used when knowledge.json is
// missing or unreadable.
func NewIndex() *Index {
	return &Index{
		Version:  IndexVersion,
		Files:    map[string]FileDescriptor{},
		Patterns: []PatternRecord{},
	}
}
