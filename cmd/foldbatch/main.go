// Command foldbatch splits multi-sequence FASTA files and drives an
// external structure-prediction command over them, one sequence at a time.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seqfold/foldbatch"
	"github.com/seqfold/foldbatch/internal/batch"
	"github.com/seqfold/foldbatch/internal/config"
	"github.com/seqfold/foldbatch/internal/fasta"
	foldmcp "github.com/seqfold/foldbatch/internal/mcp"
	"github.com/seqfold/foldbatch/internal/rename"
	"github.com/seqfold/foldbatch/internal/report"
	"github.com/seqfold/foldbatch/internal/runner"
	"github.com/seqfold/foldbatch/internal/split"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("foldbatch: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "split":
		err = splitMain(args)
	case "rename":
		err = renameMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(foldbatch.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "foldbatch: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Print(err)
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: foldbatch <command> [flags] <args>

Commands:
  run         Split the input and run the prediction command per sequence
  split       Split the input into single-sequence files only
  rename      Prefix prediction result files with their sequence name
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Exit codes for run/split: 0 all sequences succeeded, 1 partial failure,
2 total failure, empty input, or malformed input.

Use "foldbatch <command> -h" for command-specific flags.`)
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	outDir := fs.String("o", "", "output subdirectory for split files (default: configured split dir)")
	resultsDir := fs.String("results", "", "parent directory for per-sequence prediction output")
	cmdFlag := fs.String("cmd", "", "prediction command template; {fasta} and {outdir} are expanded")
	skipExisting := fs.Bool("skip-existing", false, "skip sequences whose results directory already holds output")
	jsonFlag := fs.Bool("json", false, "output the batch summary as JSON")
	timeoutFlag := fs.Duration("timeout", 0, "override the configured per-prediction timeout (e.g. 2h)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("run: exactly one input file is required")
	}
	input := fs.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	command := cfg.Command
	if *cmdFlag != "" {
		command = strings.Fields(*cmdFlag)
	}
	if len(command) == 0 {
		return errors.New("run: no prediction command configured (set command in .foldbatch or pass -cmd)")
	}

	timeout := cfg.Timeout()
	if *timeoutFlag > 0 {
		timeout = *timeoutFlag
	}

	d := newDriver(cfg, *outDir, *resultsDir, *jsonFlag)
	d.Invoker = &runner.Runner{
		Command:   command,
		Timeout:   timeout,
		MaxOutput: cfg.MaxOutputBytes(),
	}
	d.SkipExisting = *skipExisting

	sum, err := d.Run(ctx, input)
	return finishBatch(sum, err, *jsonFlag)
}

// --- split ---

func splitMain(args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	outDir := fs.String("o", "", "output subdirectory for split files (default: configured split dir)")
	jsonFlag := fs.Bool("json", false, "output the batch summary as JSON")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("split: exactly one input file is required")
	}
	input := fs.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d := newDriver(cfg, *outDir, "", *jsonFlag)
	sum, err := d.Run(ctx, input)
	return finishBatch(sum, err, *jsonFlag)
}

// --- rename ---

func renameMain(args []string) error {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("rename: exactly one job folder is required")
	}

	changes, err := rename.Apply(fs.Arg(0), log.Printf)
	if err != nil {
		return err
	}
	fmt.Printf("renamed %d files\n", len(changes))
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(foldmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	r := &runner.Runner{
		Command:   cfg.Command,
		Workspace: workspace,
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}
	store := report.NewLRUStore(5, report.NewDiskStore())

	server := foldmcp.NewServer(cfg, r, store, workspace)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcp.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newDriver(cfg *config.Config, outDir, resultsDir string, quiet bool) *batch.Driver {
	if outDir == "" {
		outDir = cfg.SplitDir()
	}
	if resultsDir == "" {
		resultsDir = cfg.ResultsDir()
	}

	d := &batch.Driver{
		Writer: &split.Writer{
			Dir:  outDir,
			Ext:  cfg.SplitExt(),
			Wrap: cfg.Split.Wrap,
		},
		ResultsDir: resultsDir,
	}
	if !quiet {
		d.Logf = log.Printf
	}
	return d
}

// finishBatch reports the summary and exits with the outcome's code.
// A parse or input error reaches here as err and exits 2 via main.
func finishBatch(sum *batch.Summary, err error, jsonOut bool) error {
	if err != nil {
		var merr *fasta.MalformedInputError
		if errors.As(err, &merr) {
			return fmt.Errorf("fatal: %w", merr)
		}
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return err
		}
	} else {
		fmt.Print(report.Describe(sum))
	}

	if code := sum.Outcome().ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}
