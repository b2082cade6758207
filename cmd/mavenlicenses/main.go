package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/acheong08/mavenlicenses/internal/audit"
	"github.com/acheong08/mavenlicenses/internal/bazel"
	"github.com/acheong08/mavenlicenses/internal/config"
	"github.com/acheong08/mavenlicenses/internal/logging"
	"github.com/acheong08/mavenlicenses/internal/registry"
	"github.com/acheong08/mavenlicenses/internal/runner"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "mavenlicenses - Maven dependency license audit")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mavenlicenses [options] <repo-root> <output-path>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mavenlicenses", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configPath = fs.String("config", "", "Path to a YAML config file (optional)")
		listings   = fs.Bool("listings", true, "Print the bazel query and reconciled dependency listings")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout, fs)
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr, fs)
		return exitUsage
	}

	if fs.NArg() != 2 {
		fmt.Fprintf(stderr, "Error: expected 2 arguments, got %d\n\n", fs.NArg())
		printUsage(stderr, fs)
		return exitUsage
	}
	repoRoot, outputPath := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitFailure
	}

	logger, runID, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	fetcher, err := registry.NewClient(cfg.FetchTimeout, cfg.DescriptorCacheSize, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	graph := bazel.NewClient(runner.New(logger), repoRoot, cfg.Bazel.Options(), logger)

	pipeline := audit.NewPipeline(graph, fetcher,
		resolvePath(repoRoot, cfg.LockfilePath),
		resolvePath(repoRoot, cfg.SavedRecordsPath),
		outputPath,
		logger)
	pipeline.Sender = &cliProgress{w: stdout}
	if *listings {
		pipeline.Listing = stdout
	}

	fmt.Fprintf(stdout, "📦 Auditing maven licenses in: %s\n", repoRoot)
	logger.Info("starting audit",
		zap.String("repo_root", repoRoot),
		zap.String("output", outputPath),
		zap.String("query", graph.QueryExpression()))

	result, err := pipeline.Run(ctx)

	var incomplete *audit.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		printFindings(stderr, incomplete.Findings)
		if result != nil && result.Written != "" {
			fmt.Fprintf(stderr, "\n📝 Provisional records written to: %s\n", result.Written)
		}
		fmt.Fprintf(stderr, "\n❌ License audit failed (run %s)\n", runID)
		return exitFailure
	case err != nil:
		logger.Error("audit failed", zap.Error(err))
		fmt.Fprintf(stderr, "❌ Error: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "\n📊 Audit Summary:\n")
	fmt.Fprintf(stdout, "   Bazel query targets: %d\n", len(result.Targets))
	fmt.Fprintf(stdout, "   Dependency records: %d\n", len(result.Records))
	fmt.Fprintf(stdout, "\n💾 Records saved to: %s\n", result.Written)
	return exitOK
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func printFindings(w io.Writer, f audit.Findings) {
	if len(f.BrokenLicenses) > 0 {
		fmt.Fprintln(w, "Please provide the details of the following licenses manually:")
		for _, lic := range f.BrokenLicenses {
			fmt.Fprintf(w, "   - %s (%s) primary=%s secondary=%q\n",
				lic.Name, lic.PrimaryLink, lic.PrimaryLinkType, lic.SecondaryLink)
		}
	}

	if len(f.WithoutLicenses) > 0 {
		if len(f.BrokenLicenses) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "Please provide the license links for the following dependencies manually:")
		for _, rec := range f.WithoutLicenses {
			fmt.Fprintf(w, "   - %d %s\n", rec.Index, rec.ArtifactName)
		}
	}
}

type cliProgress struct {
	w io.Writer
}

var stageIcons = map[string]string{
	"repin":    "📌",
	"query":    "🔍",
	"lockfile": "🔒",
	"saved":    "📂",
	"extract":  "🌐",
	"validate": "✅",
}

func (p *cliProgress) SendProgress(stage, message string) {
	icon, ok := stageIcons[stage]
	if !ok {
		icon = "•"
	}
	fmt.Fprintf(p.w, "%s %s\n", icon, message)
}
