package engine

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldock/docking-be/internal/docking/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkspaceManager_AcquireRelease(t *testing.T) {
	root := t.TempDir()
	manager := NewWorkspaceManager(root, testLogger())

	ws, err := manager.Acquire("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", ws.JobID)
	assert.DirExists(t, ws.Dir)
	assert.Equal(t, filepath.Join(root, "job-1"), ws.Dir)

	// Files written through Path land inside the workspace
	path := ws.Path("receptor.pdbqt")
	require.NoError(t, os.WriteFile(path, []byte("ATOM"), 0o644))
	assert.FileExists(t, path)

	manager.Release(ws)
	assert.NoDirExists(t, ws.Dir)
}

func TestWorkspaceManager_ReleaseIsIdempotent(t *testing.T) {
	manager := NewWorkspaceManager(t.TempDir(), testLogger())

	ws, err := manager.Acquire("job-2")
	require.NoError(t, err)

	manager.Release(ws)
	// A second release of the same workspace must not panic or recreate it
	manager.Release(ws)
	assert.NoDirExists(t, ws.Dir)
}

func TestWorkspaceManager_AcquireFailure(t *testing.T) {
	// Root path occupied by a regular file: directory creation cannot succeed
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	manager := NewWorkspaceManager(blocked, testLogger())

	ws, err := manager.Acquire("job-3")
	require.Error(t, err)
	assert.Nil(t, ws)

	var wsErr *domain.WorkspaceError
	require.ErrorAs(t, err, &wsErr)
	assert.Contains(t, wsErr.Path, "job-3")
}
