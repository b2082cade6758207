package bazel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/acheong08/mavenlicenses/internal/runner"
)

var ErrMalformedQueryOutput = errors.New("malformed bazel query output")

// Executor runs external commands. *runner.Runner satisfies it.
type Executor interface {
	Run(ctx context.Context, cmd runner.Command) (*runner.Result, error)
}

// Options selects the targets the query intersects
type Options struct {
	Binary            string // "bazel"
	RootTarget        string // "//:oppia"
	ThirdPartyPattern string // "//third_party/..."
	Repository        string // "maven"
}

// DefaultOptions returns the layout used by the Oppia Android repository
func DefaultOptions() Options {
	return Options{
		Binary:            "bazel",
		RootTarget:        "//:oppia",
		ThirdPartyPattern: "//third_party/...",
		Repository:        "maven",
	}
}

// Client runs bazel commands inside a repository root
type Client struct {
	exec    Executor
	rootDir string
	opts    Options
	logger  *zap.Logger
}

// NewClient creates a bazel client for the given repository root
func NewClient(exec Executor, rootDir string, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		exec:    exec,
		rootDir: rootDir,
		opts:    opts,
		logger:  logger,
	}
}

// QueryExpression returns the intersection query for third-party Maven targets
// in the compile closure of the root target
func (c *Client) QueryExpression() string {
	return fmt.Sprintf("deps(deps(%s) intersect %s) intersect @%s//...",
		c.opts.RootTarget, c.opts.ThirdPartyPattern, c.opts.Repository)
}

// TargetPrefix is stripped from every query output label
func (c *Client) TargetPrefix() string {
	return "@" + c.opts.Repository + "//:"
}

// RePin regenerates the lock file. Must succeed with exit code 0.
func (c *Client) RePin(ctx context.Context) error {
	result, err := c.exec.Run(ctx, runner.Command{
		Dir:  c.rootDir,
		Args: []string{c.opts.Binary, "run", "@unpinned_" + c.opts.Repository + "//:pin"},
		Env:  []string{"REPIN=1"},
	})
	if err != nil {
		return fmt.Errorf("failed to re-pin maven dependencies: %w", err)
	}

	for _, line := range result.Stdout {
		c.logger.Debug("repin output", zap.String("line", line))
	}
	return nil
}

// QueryThirdPartyDeps returns the sorted, deduplicated target names
// (without the repository prefix) that are part of the compiled closure
func (c *Client) QueryThirdPartyDeps(ctx context.Context) ([]string, error) {
	result, err := c.exec.Run(ctx, runner.Command{
		Dir:  c.rootDir,
		Args: []string{c.opts.Binary, "query", c.QueryExpression()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query bazel dependencies: %w", err)
	}

	prefix := c.TargetPrefix()
	seen := make(map[string]struct{}, len(result.Stdout))
	for _, line := range result.Stdout {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= len(prefix) || line[:len(prefix)] != prefix {
			return nil, fmt.Errorf("%w: %q does not start with %q", ErrMalformedQueryOutput, line, prefix)
		}
		seen[line[len(prefix):]] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	c.logger.Info("bazel query complete", zap.Int("targets", len(names)))
	return names, nil
}
