package runner

import (
	"strings"
	"time"
)

// Result holds the outcome of one prediction command invocation.
type Result struct {
	RunID     string        // unique identifier for this invocation
	ExitCode  int           // process exit code; 0 means success
	Stdout    []byte        // captured stdout (may be truncated)
	Stderr    []byte        // captured stderr (may be truncated)
	Truncated bool          // true if either stream hit the size cap
	TimedOut  bool          // true if the command was killed by the timeout
	Elapsed   time.Duration // wall-clock duration of the invocation
}

// FailureMessage summarises a failed invocation for the batch report:
// the timeout, or the last non-empty stderr line.
func (r *Result) FailureMessage() string {
	if r.TimedOut {
		return "prediction timed out after " + r.Elapsed.Round(time.Second).String()
	}
	lines := strings.Split(strings.TrimSpace(string(r.Stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
