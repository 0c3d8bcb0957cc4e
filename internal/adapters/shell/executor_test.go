package shell_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fablane/fablane/internal/adapters/shell"
	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/fablane/fablane/internal/core/ports/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// captureVertex routes stdout/stderr into buffers for assertions.
type captureVertex struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (v *captureVertex) Stdout() io.Writer               { return &v.stdout }
func (v *captureVertex) Stderr() io.Writer               { return &v.stderr }
func (v *captureVertex) Log(_ domain.LogLevel, _ string) {}
func (v *captureVertex) Complete(_ error)                {}
func (v *captureVertex) Cached()                         {}

func newExecutor(t *testing.T) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	return shell.NewExecutor(mockLogger)
}

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	executor := newExecutor(t)

	step := &domain.Step{
		Name:    "multi-line",
		Command: []string{"sh", "-c", "echo line1; echo line2"},
	}

	v := &captureVertex{}
	ctx := ports.ContextWithVertex(context.Background(), v)
	err := executor.Execute(ctx, step, nil, t.TempDir())
	require.NoError(t, err)

	output := v.stdout.String()
	require.Contains(t, output, "line1")
	require.Contains(t, output, "line2")
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	executor := newExecutor(t)

	step := &domain.Step{
		Name:    "env",
		Command: []string{"sh", "-c", "echo $PDK"},
	}

	v := &captureVertex{}
	ctx := ports.ContextWithVertex(context.Background(), v)
	err := executor.Execute(ctx, step, []string{"PDK=sky130A"}, t.TempDir())
	require.NoError(t, err)

	require.Contains(t, v.stdout.String(), "sky130A")
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	executor := newExecutor(t)

	step := &domain.Step{
		Name:    "fail",
		Command: []string{"sh", "-c", "exit 42"},
	}

	err := executor.Execute(context.Background(), step, nil, t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "step failed")
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	executor := newExecutor(t)

	step := &domain.Step{
		Name:    "invalid",
		Command: []string{"nonexistent-command-xyz123"},
	}

	err := executor.Execute(context.Background(), step, nil, t.TempDir())
	require.Error(t, err)
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor := newExecutor(t)

	step := &domain.Step{Name: "empty"}

	err := executor.Execute(context.Background(), step, nil, t.TempDir())
	require.NoError(t, err)
}

func TestExecutor_Execute_AbsolutePath(t *testing.T) {
	executor := newExecutor(t)

	step := &domain.Step{
		Name:    "absolute",
		Command: []string{"/bin/sh", "-c", "echo test"},
	}

	err := executor.Execute(context.Background(), step, nil, t.TempDir())
	require.NoError(t, err)
}

func TestExecutor_Execute_LogsWithoutVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	var lines []string
	mockLogger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		lines = append(lines, msg)
	}).AnyTimes()

	executor := shell.NewExecutor(mockLogger)
	step := &domain.Step{
		Name:    "logged",
		Command: []string{"sh", "-c", "echo hello-from-step"},
	}

	err := executor.Execute(context.Background(), step, nil, t.TempDir())
	require.NoError(t, err)
	require.True(t, strings.Contains(strings.Join(lines, "\n"), "hello-from-step"))
}
