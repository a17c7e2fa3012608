package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when a job ID is not present in the registry
	ErrJobNotFound = errors.New("job not found")
)

// WorkspaceError reports a scratch directory that could not be created or
// removed. Creation failure aborts the job before any tool runs; removal
// failure is logged only.
type WorkspaceError struct {
	Path string
	Err  error
}

func (e *WorkspaceError) Error() string {
	return fmt.Sprintf("workspace %s: %s", e.Path, e.Err.Error())
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

// ToolExecutionError reports an external tool that exited non-zero. Stderr
// carries the tool's diagnostics verbatim. Never retried automatically: the
// tools are deterministic, so repeated failure is assumed structural.
type ToolExecutionError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// LigandDockingError wraps a preparation or tool-invocation failure for one
// ligand. Caught at the per-ligand boundary inside the pipeline and converted
// into a failed-dock count, never propagated past the ligand loop.
type LigandDockingError struct {
	Ligand string
	Err    error
}

func (e *LigandDockingError) Error() string {
	return fmt.Sprintf("ligand %s: %s", e.Ligand, e.Err.Error())
}

func (e *LigandDockingError) Unwrap() error {
	return e.Err
}
