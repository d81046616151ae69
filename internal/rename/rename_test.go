package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mkJobDir(t *testing.T) string {
	t.Helper()
	job := t.TempDir()
	for _, seq := range []string{"seq1", "seq2"} {
		if err := os.Mkdir(filepath.Join(job, seq), 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"result.pdb", "scores.json"} {
			if err := os.WriteFile(filepath.Join(job, seq, name), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return job
}

func TestApply(t *testing.T) {
	job := mkJobDir(t)
	changes, err := Apply(job, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(changes) != 4 {
		t.Fatalf("len(changes) = %d, want 4", len(changes))
	}
	if _, err := os.Stat(filepath.Join(job, "seq1", "seq1_result.pdb")); err != nil {
		t.Errorf("prefixed file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(job, "seq1", "result.pdb")); !os.IsNotExist(err) {
		t.Errorf("original file still present (err = %v)", err)
	}
}

func TestApply_Idempotent(t *testing.T) {
	job := mkJobDir(t)
	if _, err := Apply(job, nil); err != nil {
		t.Fatal(err)
	}
	changes, err := Apply(job, nil)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("second Apply made %d changes, want 0", len(changes))
	}
}

func TestApply_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "job")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(file, nil); err == nil {
		t.Fatal("expected error for non-directory job folder")
	}
}

func TestSequenceDirs_WarnsAboutStrayFiles(t *testing.T) {
	job := mkJobDir(t)
	if err := os.WriteFile(filepath.Join(job, "stray.log"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var logged []string
	logf := func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	dirs, err := SequenceDirs(job, logf)
	if err != nil {
		t.Fatalf("SequenceDirs: %v", err)
	}
	if len(dirs) != 2 {
		t.Errorf("len(dirs) = %d, want 2", len(dirs))
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "stray.log") {
		t.Errorf("logged = %v, want a warning naming stray.log", logged)
	}
}
