package audit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/acheong08/mavenlicenses/internal/parser"
	"github.com/acheong08/mavenlicenses/internal/reconcile"
	"github.com/acheong08/mavenlicenses/internal/records"
	"github.com/acheong08/mavenlicenses/pkg/models"
)

// ProvisionalSuffix is appended to the output path when validation fails
const ProvisionalSuffix = ".provisional"

// GraphQuerier re-pins and queries the build graph. *bazel.Client satisfies it.
type GraphQuerier interface {
	RePin(ctx context.Context) error
	QueryThirdPartyDeps(ctx context.Context) ([]string, error)
}

// ProgressSender receives stage updates while the pipeline runs
type ProgressSender interface {
	SendProgress(stage, message string)
}

type nopProgress struct{}

func (nopProgress) SendProgress(string, string) {}

// Pipeline runs the whole license audit for one repository
type Pipeline struct {
	Graph   GraphQuerier
	Fetcher DescriptorFetcher

	LockfilePath     string
	SavedRecordsPath string
	OutputPath       string

	// Listing receives the traceability listings. Nil disables them.
	Listing io.Writer
	Sender  ProgressSender

	logger *zap.Logger
}

// Result is what a run produced, including the findings of a failed validation
type Result struct {
	Targets  []string
	Records  []models.DependencyRecord
	Findings Findings
	Written  string
}

// NewPipeline creates a new pipeline instance
func NewPipeline(graph GraphQuerier, fetcher DescriptorFetcher, lockfilePath, savedRecordsPath, outputPath string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Graph:            graph,
		Fetcher:          fetcher,
		LockfilePath:     lockfilePath,
		SavedRecordsPath: savedRecordsPath,
		OutputPath:       outputPath,
		Sender:           nopProgress{},
		logger:           logger,
	}
}

// Run executes every stage in order. Any failure aborts the run. When the
// merged records are incomplete they are written next to the output with
// ProvisionalSuffix and an *IncompleteError is returned alongside the result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	sender := p.Sender
	if sender == nil {
		sender = nopProgress{}
	}

	sender.SendProgress("repin", "Re-pinning maven dependencies...")
	if err := p.Graph.RePin(ctx); err != nil {
		return nil, fmt.Errorf("failed to re-pin dependencies: %w", err)
	}

	sender.SendProgress("query", "Querying build graph...")
	targets, err := p.Graph.QueryThirdPartyDeps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query build graph: %w", err)
	}

	sender.SendProgress("lockfile", "Reading lock file...")
	entries, err := parser.ReadLockfile(p.LockfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}

	deps, err := reconcile.Build(entries, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile dependencies: %w", err)
	}

	p.logger.Info("reconciled dependencies",
		zap.Int("final_list_size", len(deps)),
		zap.Int("bazel_query_size", len(targets)),
		zap.Int("lockfile_size", len(entries)))

	if p.Listing != nil {
		records.PrintListing(p.Listing, "bazel query", targets)
		names := make([]string, len(deps))
		for i, dep := range deps {
			names[i] = dep.Entry.Coord
		}
		records.PrintListing(p.Listing, "reconciled dependencies", names)
	}

	sender.SendProgress("saved", "Loading curated records...")
	saved, err := records.LoadSaved(p.SavedRecordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load curated records: %w", err)
	}

	sender.SendProgress("extract", fmt.Sprintf("Fetching license metadata for %d dependencies...", len(deps)))
	fresh, err := NewExtractor(p.Fetcher, p.logger).Extract(ctx, deps)
	if err != nil {
		return nil, err
	}

	merged := Merge(saved, fresh)
	findings := Classify(merged)
	result := &Result{Targets: targets, Records: merged, Findings: findings}

	sender.SendProgress("validate", "Validating license metadata...")
	if verr := findings.Err(); verr != nil {
		path := p.OutputPath + ProvisionalSuffix
		if err := records.WriteText(path, merged); err != nil {
			return result, errors.Join(verr, err)
		}
		result.Written = path
		p.logger.Warn("license metadata incomplete",
			zap.Int("broken_licenses", len(findings.BrokenLicenses)),
			zap.Int("without_licenses", len(findings.WithoutLicenses)),
			zap.String("provisional", path))
		return result, verr
	}

	if err := records.WriteText(p.OutputPath, merged); err != nil {
		return result, err
	}
	result.Written = p.OutputPath
	p.logger.Info("wrote dependency records", zap.String("path", p.OutputPath), zap.Int("records", len(merged)))
	return result, nil
}
