package engine

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moldock/docking-be/internal/docking/domain"
)

// Workspace is the per-job scratch directory holding prepared structures and
// pose outputs. It exists only for the duration of job processing.
type Workspace struct {
	JobID string
	Dir   string
}

// Path returns the location of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// WorkspaceManager creates and tears down job-scoped scratch directories
// under a single temp root.
type WorkspaceManager struct {
	root   string
	logger *slog.Logger
}

// NewWorkspaceManager creates a manager rooted at the given directory.
func NewWorkspaceManager(root string, logger *slog.Logger) *WorkspaceManager {
	return &WorkspaceManager{
		root:   root,
		logger: logger,
	}
}

// Acquire creates a fresh scratch directory scoped to the job ID.
func (m *WorkspaceManager) Acquire(jobID string) (*Workspace, error) {
	dir := filepath.Join(m.root, jobID)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.WorkspaceError{Path: dir, Err: err}
	}

	m.logger.Debug("Workspace acquired",
		slog.String("job_id", jobID),
		slog.String("dir", dir),
	)

	return &Workspace{JobID: jobID, Dir: dir}, nil
}

// Release removes the workspace and everything in it. Best-effort: a removal
// failure is logged and never escalated, so cleanup cannot sink the job.
func (m *WorkspaceManager) Release(ws *Workspace) {
	if err := os.RemoveAll(ws.Dir); err != nil {
		m.logger.Warn("Failed to remove workspace",
			slog.String("job_id", ws.JobID),
			slog.String("dir", ws.Dir),
			slog.String("error", err.Error()),
		)
		return
	}

	m.logger.Debug("Workspace released",
		slog.String("job_id", ws.JobID),
		slog.String("dir", ws.Dir),
	)
}
