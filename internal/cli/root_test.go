package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "decisiongraph", cmd.Use)
	assert.Contains(t, cmd.Long, "constitution")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "lint", "replay", "diff", "traverse", "import", "watch", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	replayCmd, _, err := cmd.Find([]string{"replay"})
	require.NoError(t, err)

	for _, name := range []string{"db", "at", "verify", "pattern"} {
		assert.NotNil(t, replayCmd.Flags().Lookup(name), name)
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("DECISIONGRAPH_COLOR", "never")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"valid", []string{"lint", validDir}, ExitSuccess},
		{"rejected", []string{"lint", rejectedDir}, ExitFailure},
		{"invalid document", []string{"validate", invalidLog}, ExitFailure},
		{"missing path", []string{"lint", "testdata/nope"}, ExitCommandError},
		{"unknown command", []string{"compile"}, ExitCommandError},
		{"missing args", []string{"diff", validDir}, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			assert.Equal(t, tt.want, Execute(tt.args, stdout, stderr), stdout.String()+stderr.String())
		})
	}
}

func TestExecute_InvalidFormat(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Execute([]string{"lint", validDir, "--format", "yaml"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), `invalid format "yaml"`)
	assert.Empty(t, stdout.String())
}

func TestExecute_ExitErrorNotPrintedTwice(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Execute([]string{"lint", rejectedDir}, stdout, stderr)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout.String(), "DecisionGraph validation failed")
	assert.NotContains(t, stderr.String(), "Error:")
}

func TestExecute_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "decisiongraph.yaml", "strict: true\n")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(t, ExitSuccess, Execute([]string{"lint", warnDir}, stdout, stderr))

	stdout.Reset()
	assert.Equal(t, ExitFailure, Execute([]string{"lint", warnDir, "--config", cfgPath}, stdout, stderr))

	stdout.Reset()
	assert.Equal(t, ExitSuccess, Execute([]string{"lint", warnDir, "--config", cfgPath, "--strict=false"}, stdout, stderr))
}

func TestExecute_ConfigMissing(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Execute([]string{"lint", validDir, "--config", filepath.Join(t.TempDir(), "none.yaml")}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "failed to load config")
}

func TestExecute_EnvironmentOverridesConfig(t *testing.T) {
	t.Setenv("DECISIONGRAPH_STRICT", "true")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(t, ExitFailure, Execute([]string{"lint", warnDir}, stdout, stderr))
}
