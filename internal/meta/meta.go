// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package meta reads and writes the _meta.md marker file every journey
// directory carries. The format is a deliberately minimal key:value block
// between --- markers: one pair per line, [a, b] list syntax, and
// null/none/~ for null. It is not YAML; do not feed it to a YAML parser.
package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// FileName is the metadata marker file inside a journey directory.
const FileName = "_meta.md"

// Read parses the metadata block of dir/_meta.md. A missing, unreadable,
// or malformed file yields the zero Meta: callers treat that as "no
// metadata yet" rather than an error.
func Read(dir string) types.Meta {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return types.Meta{}
	}
	return parse(string(data))
}

// parse extracts the key:value block between the first pair of ---
// markers and maps recognized keys onto Meta. Unrecognized keys are
// dropped; they do not survive a write anyway.
func parse(content string) types.Meta {
	if !strings.HasPrefix(content, "---") {
		return types.Meta{}
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 2 {
		return types.Meta{}
	}

	var m types.Meta
	for _, line := range strings.Split(strings.TrimSpace(parts[1]), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "topic":
			m.Topic = scalar(value)
		case "status":
			m.Status = scalar(value)
		case "created":
			m.Created = scalar(value)
		case "last_updated":
			m.LastUpdated = scalar(value)
		case "completed_date":
			m.CompletedDate = scalar(value)
		case "keywords":
			m.Keywords = list(value)
		case "description":
			m.Description = scalar(value)
		case "merged_from":
			m.MergedFrom = list(value)
		case "merge_date":
			m.MergeDate = scalar(value)
		}
	}
	return m
}

// scalar normalizes a value, mapping the null spellings to empty.
func scalar(value string) string {
	switch strings.ToLower(value) {
	case "null", "none", "~":
		return ""
	}
	return value
}

// list parses "[a, b, c]" into its elements. A bare comma-separated
// string (hand-edited files) is accepted too.
func list(value string) []string {
	value = strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Write regenerates dir/_meta.md from m, replacing whatever was there.
func Write(dir string, m types.Meta) error {
	var b strings.Builder
	b.WriteString("---\n")
	writePair(&b, "topic", m.Topic)
	writePair(&b, "status", m.Status)
	writePair(&b, "created", m.Created)
	writePair(&b, "last_updated", m.LastUpdated)
	writePair(&b, "completed_date", m.CompletedDate)
	writeList(&b, "keywords", m.Keywords)
	if m.Description != "" {
		writePair(&b, "description", m.Description)
	}
	if len(m.MergedFrom) > 0 {
		writeList(&b, "merged_from", m.MergedFrom)
	}
	if m.MergeDate != "" {
		writePair(&b, "merge_date", m.MergeDate)
	}
	b.WriteString("---\n")

	topic := m.Topic
	if topic == "" {
		topic = "journey"
	}
	fmt.Fprintf(&b, "\n# %s\n\nWork in progress.\n", topic)

	return os.WriteFile(filepath.Join(dir, FileName), []byte(b.String()), 0o644)
}

func writePair(b *strings.Builder, key, value string) {
	if value == "" {
		value = "null"
	}
	fmt.Fprintf(b, "%s: %s\n", key, value)
}

func writeList(b *strings.Builder, key string, values []string) {
	fmt.Fprintf(b, "%s: [%s]\n", key, strings.Join(values, ", "))
}
