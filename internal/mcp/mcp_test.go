package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seqfold/foldbatch/internal/config"
	"github.com/seqfold/foldbatch/internal/report"
	"github.com/seqfold/foldbatch/internal/runner"
)

// setup creates a full foldbatch MCP server + client over in-memory
// transports, rooted at workspaceDir.
func setup(t *testing.T, workspaceDir string, command ...string) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{Command: command}
	r := &runner.Runner{
		Command:   command,
		Workspace: workspaceDir,
		Timeout:   30 * time.Second,
		MaxOutput: cfg.MaxOutputBytes(),
	}
	store := report.NewLRUStore(5, report.NewDiskStore())

	server := NewServer(cfg, r, store, workspaceDir)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.fasta")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return "input.fasta"
}

// --- fold_split ---

func TestFoldSplit(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, ">seqA\nAAAA\n>seqA\nCCCC\n")
	cs := setup(t, dir)

	res := callTool(t, cs, "fold_split", map[string]any{"input": input})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Outcome: all succeeded") {
		t.Errorf("expected all succeeded, got:\n%s", text)
	}
	if !strings.Contains(text, "seqA_2") {
		t.Errorf("expected duplicate suffix seqA_2, got:\n%s", text)
	}
	if _, err := os.Stat(filepath.Join(dir, "SUBMONO", "seqA_2.fasta")); err != nil {
		t.Errorf("split file missing: %v", err)
	}
}

func TestFoldSplit_MalformedInput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "ACGT\n>seq1\nACGT\n")
	cs := setup(t, dir)

	res := callTool(t, cs, "fold_split", map[string]any{"input": input})
	if !res.IsError {
		t.Fatalf("expected error result, got:\n%s", resultText(res))
	}
	if !strings.Contains(resultText(res), "malformed input") {
		t.Errorf("expected malformed input message, got:\n%s", resultText(res))
	}
}

func TestFoldSplit_MissingInput(t *testing.T) {
	cs := setup(t, t.TempDir())
	res := callTool(t, cs, "fold_split", nil)
	if !res.IsError {
		t.Fatal("expected error result for missing input")
	}
}

// --- fold_run / fold_inspect ---

func TestFoldRun_ThenInspect(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, ">a\nAAAA\n>b\nCCCC\n")
	// "true" succeeds for every sequence.
	cs := setup(t, dir, "true", runner.PlaceholderFasta)

	res := callTool(t, cs, "fold_run", map[string]any{"input": input})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Outcome: all succeeded") {
		t.Errorf("expected all succeeded, got:\n%s", text)
	}

	// Pull the batch ID out of the "Batch: <id>" line.
	var batchID string
	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(line, "Batch: "); ok {
			batchID = strings.TrimSpace(rest)
		}
	}
	if batchID == "" {
		t.Fatalf("no batch ID in output:\n%s", text)
	}

	ires := callTool(t, cs, "fold_inspect", map[string]any{"batch_id": batchID, "sequence": "b"})
	itext := resultText(ires)
	if ires.IsError {
		t.Fatalf("unexpected inspect error: %s", itext)
	}
	if !strings.Contains(itext, "Sequence: b") || !strings.Contains(itext, "State: succeeded") {
		t.Errorf("inspect output = %s", itext)
	}
}

func TestFoldRun_FailingCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, ">a\nAAAA\n")
	cs := setup(t, dir, "false")

	res := callTool(t, cs, "fold_run", map[string]any{"input": input})
	text := resultText(res)
	if !strings.Contains(text, "Outcome: total failure") {
		t.Errorf("expected total failure, got:\n%s", text)
	}
}

func TestFoldRun_NoCommandConfigured(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, ">a\nAAAA\n")
	cs := setup(t, dir)

	res := callTool(t, cs, "fold_run", map[string]any{"input": input})
	if !res.IsError {
		t.Fatalf("expected error result, got:\n%s", resultText(res))
	}
}

func TestFoldInspect_UnknownBatch(t *testing.T) {
	cs := setup(t, t.TempDir())
	res := callTool(t, cs, "fold_inspect", map[string]any{"batch_id": "ghost"})
	if !res.IsError {
		t.Fatal("expected error result for unknown batch")
	}
}

// --- fold_rename ---

func TestFoldRename(t *testing.T) {
	dir := t.TempDir()
	seqDir := filepath.Join(dir, "job42", "seq1")
	if err := os.MkdirAll(seqDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(seqDir, "result.pdb"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cs := setup(t, dir)
	res := callTool(t, cs, "fold_rename", map[string]any{"job_dir": "job42"})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Renamed 1 files") {
		t.Errorf("expected one rename, got:\n%s", text)
	}
	if _, err := os.Stat(filepath.Join(seqDir, "seq1_result.pdb")); err != nil {
		t.Errorf("prefixed file missing: %v", err)
	}
}
