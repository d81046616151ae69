package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seqfold/foldbatch/internal/batch"
	"github.com/seqfold/foldbatch/internal/rename"
	"github.com/seqfold/foldbatch/internal/report"
	"github.com/seqfold/foldbatch/internal/split"
)

type splitParams struct {
	Input     string `json:"input" jsonschema:"Path to the multi-sequence FASTA file, absolute or relative to the workspace."`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"Directory for the split files. Defaults to the configured split directory."`
}

func (h *handler) splitHandler(ctx context.Context, req *mcp.CallToolRequest, params splitParams) (*mcp.CallToolResult, any, error) {
	if params.Input == "" {
		return errorResult("input is required")
	}

	d := h.newDriver(params.OutputDir)
	d.Invoker = nil // split only

	sum, err := d.Run(ctx, h.resolve(params.Input))
	if err != nil {
		return errorResult(fmt.Sprintf("split failed: %v", err))
	}
	return textResult(report.Describe(sum))
}

type runParams struct {
	Input        string `json:"input" jsonschema:"Path to the multi-sequence FASTA file, absolute or relative to the workspace."`
	SkipExisting bool   `json:"skip_existing,omitempty" jsonschema:"Skip the prediction for sequences whose results directory already holds output. Default: false."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	if params.Input == "" {
		return errorResult("input is required")
	}
	if len(h.runner.Command) == 0 {
		return errorResult("no prediction command configured; set command in " + ".foldbatch")
	}

	d := h.newDriver("")
	d.SkipExisting = params.SkipExisting

	sum, err := d.Run(ctx, h.resolve(params.Input))
	if err != nil {
		return errorResult(fmt.Sprintf("batch failed: %v", err))
	}

	// Save for fold_inspect.
	_ = h.store.Save(sum)

	var b strings.Builder
	b.WriteString(report.Describe(sum))
	fmt.Fprintf(&b, "\nInspect with fold_inspect(batch_id=%q, sequence=\"<base name>\").\n", sum.ID)
	return textResult(b.String())
}

type inspectParams struct {
	BatchID  string `json:"batch_id" jsonschema:"Batch ID from a previous fold_run."`
	Sequence string `json:"sequence,omitempty" jsonschema:"Sequence base name to inspect. Omit for the full listing."`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.BatchID == "" {
		return errorResult("batch_id is required")
	}

	sum, err := h.store.Load(params.BatchID)
	if err != nil {
		return errorResult(fmt.Sprintf("loading batch: %v", err))
	}

	if params.Sequence == "" {
		return textResult(report.Describe(sum))
	}

	r := report.BySequence(sum, params.Sequence)
	if r == nil {
		return errorResult(fmt.Sprintf("batch %s has no sequence %q", params.BatchID, params.Sequence))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sequence: %s\n", r.Unit.BaseName)
	fmt.Fprintf(&b, "Header: %s\n", r.Unit.Record.Header())
	fmt.Fprintf(&b, "Length: %d residues\n", len(r.Unit.Record.Sequence))
	fmt.Fprintf(&b, "State: %s\n", r.State)
	if r.Unit.Path != "" {
		fmt.Fprintf(&b, "Split file: %s\n", r.Unit.Path)
	}
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run: %s (exit %d)\n", r.RunID, r.ExitCode)
	}
	if r.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", r.Message)
	}
	return textResult(b.String())
}

type renameParams struct {
	JobDir string `json:"job_dir" jsonschema:"Job folder containing one subfolder per sequence."`
}

func (h *handler) renameHandler(ctx context.Context, req *mcp.CallToolRequest, params renameParams) (*mcp.CallToolResult, any, error) {
	if params.JobDir == "" {
		return errorResult("job_dir is required")
	}

	changes, err := rename.Apply(h.resolve(params.JobDir), h.logf)
	if err != nil {
		return errorResult(fmt.Sprintf("rename failed: %v", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Renamed %d files.\n", len(changes))
	for _, c := range changes {
		fmt.Fprintf(&b, "  %s/%s -> %s\n", c.Dir, c.Old, c.New)
	}
	return textResult(b.String())
}

// newDriver builds a batch driver rooted at the workspace.
func (h *handler) newDriver(splitDir string) *batch.Driver {
	if splitDir == "" {
		splitDir = h.cfg.SplitDir()
	}
	return &batch.Driver{
		Writer: &split.Writer{
			Dir:  h.resolve(splitDir),
			Ext:  h.cfg.SplitExt(),
			Wrap: h.cfg.Split.Wrap,
		},
		Invoker:    h.runner,
		ResultsDir: h.resolve(h.cfg.ResultsDir()),
		Logf:       h.logf,
	}
}

// resolve anchors a relative path at the workspace.
func (h *handler) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(h.workspace, path)
}
