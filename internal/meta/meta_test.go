// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowledge-engine/pkg/types"
)

func writeMetaFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    types.Meta
	}{
		{
			name: "full block",
			content: `---
topic: auth-setup
status: active
created: 2026-08-01 09:00
last_updated: 2026-08-02 10:30
completed_date: null
keywords: [auth, oauth, tokens]
description: Work in progress on auth setup
---

# auth-setup

Work in progress.
`,
			want: types.Meta{
				Topic:       "auth-setup",
				Status:      "active",
				Created:     "2026-08-01 09:00",
				LastUpdated: "2026-08-02 10:30",
				Keywords:    []string{"auth", "oauth", "tokens"},
				Description: "Work in progress on auth setup",
			},
		},
		{
			name: "null spellings",
			content: `---
topic: x
completed_date: ~
merge_date: none
keywords: []
---
`,
			want: types.Meta{Topic: "x"},
		},
		{
			name: "merge provenance",
			content: `---
topic: auth
merged_from: [auth-setup, authentication-config]
merge_date: 2026-08-03 11:00
keywords: [auth]
---
`,
			want: types.Meta{
				Topic:      "auth",
				Keywords:   []string{"auth"},
				MergedFrom: []string{"auth-setup", "authentication-config"},
				MergeDate:  "2026-08-03 11:00",
			},
		},
		{
			name: "unrecognized keys ignored",
			content: `---
topic: y
custom_note: kept by hand
keywords: [one]
---
`,
			want: types.Meta{Topic: "y", Keywords: []string{"one"}},
		},
		{
			name:    "no marker block",
			content: "# Just a heading\n\ntopic: not-parsed\n",
			want:    types.Meta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeMetaFile(t, dir, tt.content)
			assert.Equal(t, tt.want, Read(dir))
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	assert.Equal(t, types.Meta{}, Read(t.TempDir()))
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := types.Meta{
		Topic:       "cache-layer",
		Status:      "active",
		Created:     "2026-08-01 09:00",
		LastUpdated: "2026-08-02 10:30",
		Keywords:    []string{"cache", "invalidation"},
		Description: "consolidating the cache experiments",
		MergedFrom:  []string{"cache-experiments"},
		MergeDate:   "2026-08-02 10:30",
	}
	require.NoError(t, Write(dir, m))
	assert.Equal(t, m, Read(dir))
}

func TestWriteEmitsNullForEmptyValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, types.Meta{Topic: "t", Status: "active"}))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "completed_date: null")
	assert.Contains(t, string(data), "keywords: []")
}

func TestWriteDropsHandEditedKeys(t *testing.T) {
	dir := t.TempDir()
	writeMetaFile(t, dir, `---
topic: t
custom_note: disappears on rewrite
keywords: [a]
---
`)
	m := Read(dir)
	require.NoError(t, Write(dir, m))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "custom_note")
}
