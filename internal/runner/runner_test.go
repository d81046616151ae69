package runner

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestRunner(command ...string) *Runner {
	return &Runner{
		Command:   command,
		Timeout:   10 * time.Second,
		MaxOutput: 1 << 20,
	}
}

func TestRun_Success(t *testing.T) {
	r := newTestRunner("echo", PlaceholderFasta)
	res, err := r.Run(context.Background(), "/tmp/seq1.fasta", "/tmp/out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(string(res.Stdout), "/tmp/seq1.fasta") {
		t.Errorf("Stdout = %q, want the expanded fasta path", res.Stdout)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	r := newTestRunner("sh", "-c", "echo boom >&2; exit 3")
	res, err := r.Run(context.Background(), "in.fasta", "out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if got := res.FailureMessage(); got != "boom" {
		t.Errorf("FailureMessage = %q, want %q", got, "boom")
	}
}

func TestRun_BinaryNotFound(t *testing.T) {
	r := newTestRunner("nonexistent-predictor-xyz-123", PlaceholderFasta)
	_, err := r.Run(context.Background(), "in.fasta", "out")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "nonexistent-predictor-xyz-123") {
		t.Errorf("error = %q, want to mention the binary name", err)
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), "in.fasta", "out")
	if err == nil {
		t.Fatal("expected error for empty command template")
	}
}

func TestRun_Timeout(t *testing.T) {
	r := newTestRunner("sleep", "10")
	r.Timeout = 100 * time.Millisecond

	res, err := r.Run(context.Background(), "in.fasta", "out")
	if err != nil {
		// Some platforms surface the kill as an exec error instead of
		// an ExitError; either way the driver must not crash.
		return
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if res.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero after timeout kill")
	}
}

func TestRun_OutputTruncation(t *testing.T) {
	r := newTestRunner("sh", "-c", "dd if=/dev/zero bs=200 count=1 2>/dev/null")
	r.MaxOutput = 100

	res, err := r.Run(context.Background(), "in.fasta", "out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(res.Stdout) > r.MaxOutput {
		t.Errorf("len(Stdout) = %d, want <= %d", len(res.Stdout), r.MaxOutput)
	}
}

func TestExpand(t *testing.T) {
	argv := expand(
		[]string{"predict", "--fasta_paths=" + PlaceholderFasta, "--output_dir=" + PlaceholderOutDir, "--gpu"},
		"/data/seq1.fasta", "/data/out/seq1",
	)
	want := []string{"predict", "--fasta_paths=/data/seq1.fasta", "--output_dir=/data/out/seq1", "--gpu"}
	if len(argv) != len(want) {
		t.Fatalf("len(argv) = %d, want %d", len(argv), len(want))
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}
