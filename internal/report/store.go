// Package report persists batch summaries so finished runs can be
// inspected later, by batch ID or by sequence base name.
package report

import (
	"fmt"
	"strings"

	"github.com/seqfold/foldbatch/internal/batch"
)

// Store persists and retrieves batch summaries.
type Store interface {
	Save(sum *batch.Summary) error
	Load(batchID string) (*batch.Summary, error)
}

// BySequence returns the result for the record with the given base name,
// or nil if the batch holds no such record.
func BySequence(sum *batch.Summary, baseName string) *batch.RunResult {
	for i := range sum.Results {
		if sum.Results[i].Unit.BaseName == baseName {
			return &sum.Results[i]
		}
	}
	return nil
}

// Failures returns the results of all failed records, in record order.
func Failures(sum *batch.Summary) []batch.RunResult {
	var out []batch.RunResult
	for _, r := range sum.Results {
		if r.State == batch.StateFailed {
			out = append(out, r)
		}
	}
	return out
}

// Describe renders a one-line-per-record view of a batch summary.
func Describe(sum *batch.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch: %s\n", sum.ID)
	fmt.Fprintf(&b, "Input: %s\n", sum.Input)
	fmt.Fprintf(&b, "Outcome: %s\n\n", sum.Outcome())

	for _, r := range sum.Results {
		switch r.State {
		case batch.StateSucceeded:
			fmt.Fprintf(&b, "  %-30s ok\n", r.Unit.BaseName)
		case batch.StateSkipped:
			fmt.Fprintf(&b, "  %-30s skipped\n", r.Unit.BaseName)
		default:
			fmt.Fprintf(&b, "  %-30s FAIL  %s\n", r.Unit.BaseName, r.Message)
		}
	}

	fmt.Fprintf(&b, "\n%d total, %d succeeded, %d failed", sum.Total, sum.Succeeded, sum.Failed)
	if sum.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", sum.Skipped)
	}
	b.WriteString("\n")
	return b.String()
}
