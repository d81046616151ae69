// Package runner invokes the external prediction command for one split
// file, with timeouts and output size limits.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Placeholders recognised in the command template.
const (
	PlaceholderFasta  = "{fasta}"
	PlaceholderOutDir = "{outdir}"
)

// Runner executes the configured prediction command once per split file.
// The command template is an argv list; occurrences of {fasta} and
// {outdir} are replaced with the split file path and the per-sequence
// output directory. Arguments without a placeholder are passed through.
type Runner struct {
	Command   []string
	Workspace string // working directory for the command; "" keeps the caller's
	Timeout   time.Duration
	MaxOutput int // bytes per stream
}

// Run invokes the prediction command on fastaPath. A nonzero exit or a
// timeout kill is reported through the Result, never as an error; errors
// are reserved for invocations that could not start at all (empty
// command template, binary not found).
func (r *Runner) Run(ctx context.Context, fastaPath, outDir string) (*Result, error) {
	if len(r.Command) == 0 {
		return nil, fmt.Errorf("no prediction command configured")
	}

	argv := expand(r.Command, fastaPath, outDir)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()
	start := time.Now()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Workspace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: r.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: r.MaxOutput}

	runErr := cmd.Run()
	elapsed := time.Since(start)

	exitCode := 0
	timedOut := false
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Binary not found or other exec failure.
			return nil, fmt.Errorf("executing %s: %w", argv[0], runErr)
		}
		exitCode = exitErr.ExitCode()
		timedOut = ctx.Err() == context.DeadlineExceeded
	}

	return &Result{
		RunID:     runID,
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Len() >= r.MaxOutput || stderr.Len() >= r.MaxOutput,
		TimedOut:  timedOut,
		Elapsed:   elapsed,
	}, nil
}

// expand substitutes the template placeholders into a fresh argv.
func expand(template []string, fastaPath, outDir string) []string {
	argv := make([]string, len(template))
	for i, arg := range template {
		arg = strings.ReplaceAll(arg, PlaceholderFasta, fastaPath)
		arg = strings.ReplaceAll(arg, PlaceholderOutDir, outDir)
		argv[i] = arg
	}
	return argv
}

// limitWriter writes up to limit bytes to buf, then silently discards
// the rest so long-running predictions cannot exhaust memory.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Report all bytes consumed to avoid short-write errors upstream.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
