package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/shell"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/qeb/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	skipWithoutShell(t)
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		mockLogger.EXPECT().Info("line1"),
		mockLogger.EXPECT().Info("line2"),
	)

	executor := shell.NewExecutor(mockLogger)
	err := executor.Execute(context.Background(), &domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo line1; echo line2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	skipWithoutShell(t)
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockLogger.EXPECT().Info("part1part2")
	mockLogger.EXPECT().Info("tail")

	executor := shell.NewExecutor(mockLogger)
	err := executor.Execute(context.Background(), &domain.Command{
		Name: "sh",
		Args: []string{"-c", "printf part1; sleep 0.05; echo part2; printf tail"},
	})
	require.NoError(t, err)
}

func TestExecutor_Execute_WithVertex(t *testing.T) {
	skipWithoutShell(t)
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockVertex := mocks.NewMockVertex(ctrl)

	var stdoutBuf, stderrBuf bytes.Buffer
	mockVertex.EXPECT().Stdout().Return(&stdoutBuf).AnyTimes()
	mockVertex.EXPECT().Stderr().Return(&stderrBuf).AnyTimes()

	executor := shell.NewExecutor(mockLogger)
	ctx := ports.ContextWithVertex(context.Background(), mockVertex)

	err := executor.Execute(ctx, &domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo hello to stdout; echo hello to stderr >&2"},
	})
	require.NoError(t, err)

	assert.Contains(t, stdoutBuf.String(), "hello to stdout")
	assert.Contains(t, stderrBuf.String(), "hello to stderr")
}

func TestExecutor_Execute_Environment(t *testing.T) {
	skipWithoutShell(t)
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("custom-value")

	executor := shell.NewExecutor(mockLogger)
	err := executor.Execute(context.Background(), &domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo $QEB_TEST_VALUE"},
		Env:  map[string]string{"QEB_TEST_VALUE": "custom-value"},
	})
	require.NoError(t, err)
}

func TestExecutor_Execute_Failure(t *testing.T) {
	skipWithoutShell(t)
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("runner crashed")

	executor := shell.NewExecutor(mockLogger)
	err := executor.Execute(context.Background(), &domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo runner crashed >&2; exit 3"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecutor_Execute_AbsolutePath(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho from script\n"), 0o700)) //nolint:gosec // test script

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("from script")

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), &domain.Command{Name: script})
	require.NoError(t, err)
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))
	assert.Error(t, executor.Execute(context.Background(), &domain.Command{}))
}

func TestResolveEnvironment(t *testing.T) {
	env := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/u", "MALFORMED"},
		map[string]string{"HOME": "/tmp/home", "NODE_OPTIONS": "--max-old-space-size=4096"},
	)

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"HOME=/tmp/home",
		"NODE_OPTIONS=--max-old-space-size=4096",
	}, env)
}
