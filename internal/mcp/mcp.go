// Package mcp provides the foldbatch MCP server, registering the batch
// tools and publishing model instructions.
package mcp

import (
	_ "embed"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seqfold/foldbatch"
	"github.com/seqfold/foldbatch/internal/config"
	"github.com/seqfold/foldbatch/internal/report"
	"github.com/seqfold/foldbatch/internal/runner"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	cfg       *config.Config
	runner    *runner.Runner
	store     report.Store
	workspace string
	logf      func(format string, args ...any)
}

// NewServer creates an MCP server with all foldbatch tools registered.
// workspace is the directory input paths are resolved against.
func NewServer(cfg *config.Config, r *runner.Runner, store report.Store, workspace string) *mcp.Server {
	h := &handler{
		cfg:       cfg,
		runner:    r,
		store:     store,
		workspace: workspace,
		logf:      log.Printf,
	}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "foldbatch", Version: foldbatch.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "fold_split",
		Description: `Split a multi-sequence FASTA file into single-sequence files.

Writes one file per record under the configured split directory and reports
the allocated base names. No prediction is run.`,
	}, h.splitHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "fold_run",
		Description: `Split a multi-sequence FASTA file and run the prediction command on each sequence, one at a time.

A failing sequence never blocks the rest of the batch. The summary is stored
for drill-down via fold_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "fold_inspect",
		Description: `Drill into a stored batch summary from a previous fold_run.

Use the batch_id from the fold_run output. Pass a sequence base name to see
one record's result, or omit it for the full per-record listing.`,
	}, h.inspectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "fold_rename",
		Description: `Prefix prediction result files with their sequence name.

Expects a job folder containing one subfolder per sequence; files inside each
subfolder are renamed to "<sequence>_<file>". Already-prefixed files are
left alone.`,
	}, h.renameHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
