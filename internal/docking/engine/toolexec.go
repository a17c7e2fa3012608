package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/moldock/docking-be/internal/docking/domain"
)

// ToolOutput is the captured output of a finished external tool run.
type ToolOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ToolRunner executes an external executable with a fixed argument vector and
// blocks until it exits. Implementations must return ToolExecutionError for a
// non-zero exit. Invocations are single-shot: the docking tools are
// deterministic, so a failure is reported up, never retried.
type ToolRunner interface {
	Run(ctx context.Context, name string, args ...string) (*ToolOutput, error)
}

// ExecToolRunner runs tools as child processes in the current environment.
type ExecToolRunner struct {
	logger *slog.Logger
}

// NewExecToolRunner creates an os/exec backed runner.
func NewExecToolRunner(logger *slog.Logger) *ExecToolRunner {
	return &ExecToolRunner{logger: logger}
}

// Run executes the named program, capturing stdout and stderr.
func (r *ExecToolRunner) Run(ctx context.Context, name string, args ...string) (*ToolOutput, error) {
	r.logger.Debug("Running external tool",
		slog.String("tool", name),
		slog.Any("args", args),
	)

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &domain.ToolExecutionError{
				Tool:     name,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		// The process never ran (missing binary, permission denied, ...)
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return &ToolOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}, nil
}
