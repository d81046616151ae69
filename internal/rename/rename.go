// Package rename prefixes prediction result files with their sequence
// name, so results from different sequences stay distinguishable once
// collected into one place.
package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Change records one applied rename.
type Change struct {
	Dir string // sequence subfolder
	Old string // original file name
	New string // prefixed file name
}

// SequenceDirs lists the first-level subfolders (sequence names) of
// jobDir in directory order. Stray files at the first level are reported
// through logf but do not fail the listing.
func SequenceDirs(jobDir string, logf func(format string, args ...any)) ([]string, error) {
	info, err := os.Stat(jobDir)
	if err != nil {
		return nil, fmt.Errorf("reading job folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", jobDir)
	}

	entries, err := os.ReadDir(jobDir)
	if err != nil {
		return nil, fmt.Errorf("reading job folder: %w", err)
	}

	var dirs, stray []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			stray = append(stray, e.Name())
		}
	}
	if len(stray) > 0 && logf != nil {
		logf("files found at the top level of %s: %s", jobDir, strings.Join(stray, ", "))
	}
	return dirs, nil
}

// Apply renames result files in each sequence subfolder of jobDir so
// they carry the "<sequence>_" prefix. Files already carrying it are
// left untouched, so reruns are harmless. Subfolders inside a sequence
// folder are skipped.
func Apply(jobDir string, logf func(format string, args ...any)) ([]Change, error) {
	sequences, err := SequenceDirs(jobDir, logf)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, seq := range sequences {
		seqPath := filepath.Join(jobDir, seq)
		entries, err := os.ReadDir(seqPath)
		if err != nil {
			return changes, fmt.Errorf("reading %s: %w", seqPath, err)
		}

		prefix := seq + "_"
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), prefix) {
				continue
			}
			oldPath := filepath.Join(seqPath, e.Name())
			newName := prefix + e.Name()
			if err := os.Rename(oldPath, filepath.Join(seqPath, newName)); err != nil {
				return changes, fmt.Errorf("renaming %s: %w", oldPath, err)
			}
			changes = append(changes, Change{Dir: seq, Old: e.Name(), New: newName})
			if logf != nil {
				logf("renamed %s/%s -> %s", seq, e.Name(), newName)
			}
		}
	}
	return changes, nil
}
