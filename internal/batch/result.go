package batch

import "github.com/seqfold/foldbatch/internal/split"

// State tracks a unit through the driver's per-record machine:
// pending → written → invoked → succeeded | failed, with skipped as a
// terminal shortcut when existing results are reused.
type State string

const (
	StatePending   State = "pending"
	StateWritten   State = "written"
	StateInvoked   State = "invoked"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
)

// RunResult is the terminal outcome for one record. It is never mutated
// after the driver appends it to the summary.
type RunResult struct {
	Unit     split.Unit `json:"unit"`
	State    State      `json:"state"`
	ExitCode int        `json:"exit_code"`
	Message  string     `json:"message,omitempty"`
	RunID    string     `json:"run_id,omitempty"`
}

// Succeeded reports whether the record reached the succeeded state.
func (r RunResult) Succeeded() bool { return r.State == StateSucceeded }

// Summary aggregates the outcomes of one batch, in record order.
type Summary struct {
	ID        string      `json:"id"`
	Input     string      `json:"input"`
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped,omitempty"`
	Results   []RunResult `json:"results"`
}

func (s *Summary) add(r RunResult) {
	s.Results = append(s.Results, r)
	switch r.State {
	case StateSucceeded:
		s.Succeeded++
	case StateSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Outcome classifies a finished batch.
type Outcome int

const (
	AllSucceeded Outcome = iota
	PartialFailure
	TotalFailure
	EmptyInput
	Interrupted
)

// Outcome derives the aggregate outcome. An input with no records is
// its own outcome rather than a silent success, and a batch that never
// reached every record (driver interrupted mid-run) never reports
// success for the records it did not attempt.
func (s *Summary) Outcome() Outcome {
	switch {
	case s.Total == 0:
		return EmptyInput
	case len(s.Results) < s.Total:
		return Interrupted
	case s.Failed == 0:
		return AllSucceeded
	case s.Succeeded == 0 && s.Skipped == 0:
		return TotalFailure
	default:
		return PartialFailure
	}
}

func (o Outcome) String() string {
	switch o {
	case AllSucceeded:
		return "all succeeded"
	case PartialFailure:
		return "partial failure"
	case TotalFailure:
		return "total failure"
	case EmptyInput:
		return "empty input"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to the process exit status: 0 when every
// record succeeded, 1 on partial failure, 2 otherwise.
func (o Outcome) ExitCode() int {
	switch o {
	case AllSucceeded:
		return 0
	case PartialFailure:
		return 1
	default:
		return 2
	}
}
