// Package batch orchestrates the split-and-predict pipeline over one
// multi-sequence input file. Records are processed strictly one at a
// time: the prediction backend owns an exclusive resource, so no
// concurrency is introduced even though records are independent.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/seqfold/foldbatch/internal/fasta"
	"github.com/seqfold/foldbatch/internal/naming"
	"github.com/seqfold/foldbatch/internal/runner"
	"github.com/seqfold/foldbatch/internal/split"
)

// Invoker runs the external prediction command for one split file.
// Implemented by runner.Runner.
type Invoker interface {
	Run(ctx context.Context, fastaPath, outDir string) (*runner.Result, error)
}

// Driver walks the parsed record sequence and drives each record through
// write → invoke → record. A failure on one record never prevents later
// records from being attempted.
type Driver struct {
	Writer  *split.Writer
	Invoker Invoker // nil runs the split phase only
	// ResultsDir is the parent for per-sequence prediction output; each
	// record gets ResultsDir/<baseName> passed to the Invoker.
	ResultsDir string
	// SkipExisting skips the prediction (not the split write) for records
	// whose output directory already holds results from a previous run.
	SkipExisting bool
	Logf         func(format string, args ...any) // nil disables progress output
}

// Run processes every record of the FASTA file at inputPath in order and
// returns the batch summary. A malformed input is fatal: it is returned
// as an error and zero records are processed.
func (d *Driver) Run(ctx context.Context, inputPath string) (*Summary, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", inputPath, err)
	}
	records, err := fasta.Parse(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		ID:    uuid.New().String(),
		Input: inputPath,
		Total: len(records),
	}
	alloc := naming.NewAllocator()

	for i, rec := range records {
		if ctx.Err() != nil {
			d.logf("interrupted; %d of %d records not attempted", len(records)-i, len(records))
			break
		}
		res := d.process(ctx, rec, alloc, i+1, len(records))
		sum.add(res)
	}
	return sum, nil
}

// process drives one record through the unit state machine.
func (d *Driver) process(ctx context.Context, rec fasta.Record, alloc *naming.Allocator, n, total int) RunResult {
	base := alloc.Claim(rec.ID)
	res := RunResult{
		Unit:  split.Unit{Record: rec, BaseName: base},
		State: StatePending,
	}
	d.logf("[%d/%d] %s", n, total, base)

	if rec.Sequence == "" {
		res.State = StateFailed
		res.Message = "record has no sequence content"
		d.logf("  failed: %s", res.Message)
		return res
	}

	unit, err := d.Writer.Write(rec, base)
	if err != nil {
		res.State = StateFailed
		res.Message = err.Error()
		d.logf("  failed: %s", res.Message)
		return res
	}
	res.Unit = unit
	res.State = StateWritten

	if d.Invoker == nil {
		// Split-only run: a written unit is as good as it gets.
		res.State = StateSucceeded
		d.logf("  written: %s", unit.Path)
		return res
	}

	outDir := filepath.Join(d.ResultsDir, base)
	if d.SkipExisting && hasResults(outDir) {
		res.State = StateSkipped
		res.Message = "existing results in " + outDir
		d.logf("  skipped: %s", res.Message)
		return res
	}

	rr, err := d.Invoker.Run(ctx, unit.Path, outDir)
	if err != nil {
		// The command never started; still scoped to this record.
		res.State = StateFailed
		res.Message = err.Error()
		d.logf("  failed: %s", res.Message)
		return res
	}
	res.State = StateInvoked
	res.RunID = rr.RunID
	res.ExitCode = rr.ExitCode

	if rr.ExitCode == 0 {
		res.State = StateSucceeded
		d.logf("  ok (%s)", rr.Elapsed.Round(time.Second))
		return res
	}
	res.State = StateFailed
	res.Message = rr.FailureMessage()
	if res.Message == "" {
		res.Message = fmt.Sprintf("prediction exited with code %d", rr.ExitCode)
	}
	d.logf("  failed: exit %d: %s", rr.ExitCode, res.Message)
	return res
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

// hasResults reports whether dir exists and contains at least one entry.
func hasResults(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
