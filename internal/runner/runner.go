package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every external command
const DefaultTimeout = 60 * time.Second

var (
	ErrInvalidWorkingDirectory = errors.New("working directory is not a directory")
	ErrProcessTimeout          = errors.New("process did not finish within the expected timeout")
	ErrUnexpectedExitCode      = errors.New("unexpected exit code")
)

// QueryExitCodes may be passed by query call sites that accept exit code 3
// ("no matching targets, but the query itself was well formed").
var QueryExitCodes = []int{0, 3}

// Command describes a single external invocation
type Command struct {
	Dir  string
	Args []string // argv; Args[0] is looked up in PATH
	Env  []string // KEY=VALUE pairs appended to the inherited environment

	// AllowedExitCodes defaults to {0}
	AllowedExitCodes []int
}

// Result holds the outcome of a finished command
type Result struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
	Duration time.Duration
}

// ExitCodeError is returned when a command exits with a code outside the allowed set
type ExitCodeError struct {
	Args     []string
	ExitCode int
	Stdout   []string
	Stderr   []string
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("unexpected exit code %d for command %v\nStandard output:\n%s\nError output:\n%s",
		e.ExitCode, e.Args, strings.Join(e.Stdout, "\n"), strings.Join(e.Stderr, "\n"))
}

func (e *ExitCodeError) Unwrap() error {
	return ErrUnexpectedExitCode
}

// Runner executes commands with a fixed wait bound
type Runner struct {
	Timeout time.Duration
	logger  *zap.Logger
}

// New creates a runner using DefaultTimeout
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Run executes cmd and returns its captured output. Any failure, including a
// disallowed exit code, is returned as an error with no partial result.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	info, err := os.Stat(cmd.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWorkingDirectory, cmd.Dir)
	}
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("failed to run command: empty argument vector")
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: argv comes from our own configuration, never a shell string
	c := exec.CommandContext(execCtx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	r.logger.Debug("running command",
		zap.Strings("args", cmd.Args),
		zap.Strings("env", cmd.Env),
		zap.String("dir", cmd.Dir))

	start := time.Now()
	err = c.Run()
	result := &Result{
		Stdout:   splitLines(stdout.String()),
		Stderr:   splitLines(stderr.String()),
		Duration: time.Since(start),
	}

	if err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v after %v", ErrProcessTimeout, cmd.Args, timeout)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %v: %w", cmd.Args, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.logger.Debug("command finished",
		zap.Strings("args", cmd.Args),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration))

	allowed := cmd.AllowedExitCodes
	if len(allowed) == 0 {
		allowed = []int{0}
	}
	if !slices.Contains(allowed, result.ExitCode) {
		return nil, &ExitCodeError{
			Args:     cmd.Args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	return result, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
