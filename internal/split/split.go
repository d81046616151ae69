// Package split persists single-record FASTA files for a batch.
package split

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seqfold/foldbatch/internal/fasta"
)

// DefaultExt is the extension given to split files when none is configured.
const DefaultExt = "fasta"

// Unit is one single-record file written for a batch.
type Unit struct {
	Record   fasta.Record `json:"record"`
	BaseName string       `json:"base_name"`
	Path     string       `json:"path,omitempty"` // empty if the write failed
}

// Writer persists records as standalone single-record files under Dir.
type Writer struct {
	Dir  string
	Ext  string // file extension without the dot; DefaultExt if empty
	Wrap int    // sequence wrap width; 0 writes one line per sequence
}

// Write persists rec under its allocated base name. The output directory
// is created on first use; an existing file with the same name is
// overwritten, so reruns are idempotent at the file level.
func (w *Writer) Write(rec fasta.Record, baseName string) (Unit, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Unit{}, fmt.Errorf("creating output directory %s: %w", w.Dir, err)
	}

	ext := w.Ext
	if ext == "" {
		ext = DefaultExt
	}
	path := filepath.Join(w.Dir, baseName+"."+ext)

	if err := os.WriteFile(path, []byte(fasta.Format(rec, w.Wrap)), 0o644); err != nil {
		return Unit{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return Unit{Record: rec, BaseName: baseName, Path: path}, nil
}
