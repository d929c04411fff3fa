// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journey

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/knowledge-engine/internal/keyword"
	"github.com/pdiddy/knowledge-engine/internal/meta"
	"github.com/pdiddy/knowledge-engine/pkg/types"
)

// MergeResult reports what a merge produced and what it left behind.
type MergeResult struct {
	Target     string   `json:"target"`
	Entries    []string `json:"entries"`
	Keywords   []string `json:"keywords"`
	LeftBehind []string `json:"left_behind"`
}

// Merge consolidates the main journey and the named others into targetDir.
// Entry files are copied with collision renaming, keyword sets are unioned,
// and the merged metadata records the earliest creation, the latest update,
// and provenance. Source directories are not deleted: a failed merge must
// leave them intact, so cleanup is a separate, deliberate step. The paths
// still holding source data are returned in LeftBehind.
func (m *Manager) Merge(mainTopic string, others []string, targetDir string) (MergeResult, error) {
	if targetDir == "" {
		if path, _, ok := m.Find(mainTopic); ok {
			targetDir = path
		} else {
			targetDir = filepath.Join(m.dir(), mainTopic)
		}
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return MergeResult{}, fmt.Errorf("creating merge target: %w", err)
	}

	allKeywords := keyword.Set{}
	var earliest, latest, description string
	var copied, leftBehind []string

	for _, topic := range append([]string{mainTopic}, others...) {
		srcDir, _, ok := m.Find(topic)
		if !ok {
			continue
		}

		src := meta.Read(srcDir)
		for _, k := range src.Keywords {
			allKeywords.Add(k)
		}
		if src.Created != "" && (earliest == "" || src.Created < earliest) {
			earliest = src.Created
		}
		if src.LastUpdated != "" && (latest == "" || src.LastUpdated > latest) {
			latest = src.LastUpdated
		}
		if description == "" {
			description = src.Description
		}

		if srcDir == targetDir {
			continue
		}

		entries, err := os.ReadDir(srcDir)
		if err != nil {
			return MergeResult{}, fmt.Errorf("reading journey %q: %w", topic, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || name == meta.FileName || !strings.HasSuffix(name, ".md") {
				continue
			}

			dst := filepath.Join(targetDir, name)
			if _, err := os.Stat(dst); err == nil {
				dst = filepath.Join(targetDir, conflictName(name, topic))
			}
			if err := copyFile(filepath.Join(srcDir, name), dst); err != nil {
				return MergeResult{}, fmt.Errorf("copying entry %s: %w", name, err)
			}
			copied = append(copied, filepath.Base(dst))
		}
		leftBehind = append(leftBehind, srcDir)
	}

	stamp := m.now().Format(types.MetaTimeLayout)
	if earliest == "" {
		earliest = stamp
	}
	if latest == "" {
		latest = stamp
	}

	merged := types.Meta{
		Topic:       mainTopic,
		Status:      types.StatusActive,
		Created:     earliest,
		LastUpdated: latest,
		Keywords:    allKeywords.Sorted(0),
		Description: description,
		MergedFrom:  others,
		MergeDate:   stamp,
	}
	if err := meta.Write(targetDir, merged); err != nil {
		return MergeResult{}, fmt.Errorf("writing merged metadata: %w", err)
	}

	return MergeResult{
		Target:     targetDir,
		Entries:    copied,
		Keywords:   merged.Keywords,
		LeftBehind: leftBehind,
	}, nil
}

// conflictName renames a colliding entry by inserting the source topic into
// the filename. Timestamp-prefixed names keep their date segment first so
// chronological sorting survives; anything else gets a plain topic prefix.
func conflictName(name, topic string) string {
	stem := strings.TrimSuffix(name, ".md")
	parts := strings.Split(stem, "-")
	if len(parts) >= 4 && datePrefix(stem) != "" {
		return strings.Join(parts[:3], "-") + "-" + topic + "-" + strings.Join(parts[3:], "-") + ".md"
	}
	return topic + "-" + name
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
