package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldock/docking-be/internal/docking/domain"
)

func TestExecToolRunner_Success(t *testing.T) {
	runner := NewExecToolRunner(testLogger())

	out, err := runner.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Empty(t, out.Stderr)
	assert.Equal(t, 0, out.ExitCode)
}

func TestExecToolRunner_NonZeroExit(t *testing.T) {
	runner := NewExecToolRunner(testLogger())

	out, err := runner.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Nil(t, out)

	var toolErr *domain.ToolExecutionError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "sh", toolErr.Tool)
	assert.Equal(t, 3, toolErr.ExitCode)
	assert.Contains(t, toolErr.Stderr, "oops")
}

func TestExecToolRunner_MissingExecutable(t *testing.T) {
	runner := NewExecToolRunner(testLogger())

	out, err := runner.Run(context.Background(), "no-such-docking-tool")
	require.Error(t, err)
	assert.Nil(t, out)

	// Never ran, so there is no exit code to classify
	var toolErr *domain.ToolExecutionError
	assert.NotErrorAs(t, err, &toolErr)
}
