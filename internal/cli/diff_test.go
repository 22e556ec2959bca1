package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/decisiongraph/internal/diff"
	"github.com/roach88/decisiongraph/internal/domain"
)

func TestDiffCommand_Text(t *testing.T) {
	stdout, _, err := execute(t, NewDiffCommand(testOptions("text")), authLog, validDir)
	require.NoError(t, err)

	assert.Equal(t, "+ node N:3\n+ edge E:2\n", stdout)
}

func TestDiffCommand_Reverse(t *testing.T) {
	stdout, _, err := execute(t, NewDiffCommand(testOptions("text")), validDir, authLog)
	require.NoError(t, err)

	assert.Equal(t, "- node N:3\n- edge E:2\n", stdout)
}

func TestDiffCommand_NoDifferences(t *testing.T) {
	stdout, _, err := execute(t, NewDiffCommand(testOptions("text")), validDir, validDir, "--exit-code")
	require.NoError(t, err)
	assert.Equal(t, "No differences.\n", stdout)
}

func TestDiffCommand_Changed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "auth.decisionlog.json", `{
  "version": "0.3",
  "graphId": "G:auth",
  "ops": [
    {"type": "add_node", "node": {"id": "N:1", "kind": "decision", "status": "Deprecated", "createdAt": "2026-03-01T09:00:00Z", "author": "A:ops", "payload": {"statement": "Issue short-lived session tokens"}}},
    {"type": "add_node", "node": {"id": "N:2", "kind": "requirement", "status": "Active", "createdAt": "2026-03-01T09:00:01Z", "author": "A:ops", "payload": {"statement": "Rotate signing keys monthly"}}}
  ]
}`)

	stdout, _, err := execute(t, NewDiffCommand(testOptions("json")), authLog, dir)
	require.NoError(t, err)

	var result DiffResult
	decodeResponse(t, stdout, &result)
	assert.False(t, result.Same)

	want := diff.Result{
		AddedNodes:   []domain.NodeID{},
		RemovedNodes: []domain.NodeID{},
		ChangedNodes: []domain.NodeID{"N:1"},
		AddedEdges:   []domain.EdgeID{},
		RemovedEdges: []domain.EdgeID{"E:1"},
		ChangedEdges: []domain.EdgeID{},
	}
	if d := cmp.Diff(want, result.Delta); d != "" {
		t.Errorf("delta mismatch (-want +got):\n%s", d)
	}
}

func TestDiffCommand_ExitCode(t *testing.T) {
	_, _, err := execute(t, NewDiffCommand(testOptions("text")), authLog, validDir, "--exit-code")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestDiffCommand_InvalidSide(t *testing.T) {
	_, _, err := execute(t, NewDiffCommand(testOptions("text")), authLog, invalidLog)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, _, err = execute(t, NewDiffCommand(testOptions("text")), authLog, "testdata/nope")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
