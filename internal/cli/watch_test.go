package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatchCommand_RelintsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	copyFile(t, authLog, dir)

	out := &syncBuffer{}
	cmd := NewWatchCommand(testOptions("text"))
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{dir, "--debounce", "20ms"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return countOf(out.String(), "DecisionGraph validation passed") == 1
	}, 5*time.Second, 10*time.Millisecond, out.String())

	data, err := os.ReadFile(rejectedLog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.decisionlog.json"), data, 0o644))

	require.Eventually(t, func() bool {
		return countOf(out.String(), "DecisionGraph validation failed") > 0
	}, 5*time.Second, 10*time.Millisecond, out.String())
	assert.Contains(t, out.String(), "↻ dup.decisionlog.json")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchCommand_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	copyFile(t, authLog, dir)

	out := &syncBuffer{}
	cmd := NewWatchCommand(testOptions("text"))
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{dir, "--debounce", "20ms"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return countOf(out.String(), "validation passed") == 1
	}, 5*time.Second, 10*time.Millisecond)

	writeFile(t, dir, "README.md", "# decisions\n")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, countOf(out.String(), "validation passed"))

	cancel()
	require.NoError(t, <-done)
}

func TestWatchCommand_NotADirectory(t *testing.T) {
	stdout, _, err := execute(t, NewWatchCommand(testOptions("text")), authLog)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "not a directory")
}

func countOf(s, substr string) int {
	return strings.Count(s, substr)
}
