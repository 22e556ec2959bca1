package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validV02 = `{
  "version": "0.2",
  "ops": [
    {"type": "add_node", "node": {"id": "N:1", "kind": "decision", "status": "Active",
      "createdAt": "2026-02-06T00:00:00.000Z", "author": "A:x", "payload": {"statement": "Use CUE"}}},
    {"type": "add_node", "node": {"id": "N:2", "kind": "decision", "status": "Active",
      "createdAt": "2026-02-06T00:00:00.000Z", "author": "A:x"}},
    {"type": "add_edge", "edge": {"id": "E:1", "type": "depends_on", "from": "N:1", "to": "N:2",
      "status": "Active", "createdAt": "2026-02-06T00:00:00Z", "author": "A:x"}},
    {"type": "supersede_edge", "oldEdgeId": "E:1", "newEdge": {"id": "E:2", "type": "depends_on",
      "from": "N:2", "to": "N:1", "status": "Active", "createdAt": "2026-02-06T00:00:00Z", "author": "A:x"}},
    {"type": "commit", "commitId": "C:1", "createdAt": "2026-02-06T00:00:00Z", "author": "A:x"}
  ]
}`

func TestValidate_AcceptsV02(t *testing.T) {
	require.NoError(t, Validate([]byte(validV02)))
}

func TestValidate_AcceptsV03(t *testing.T) {
	doc := `{"version": "0.3", "graphId": "G:adr", "ops": [
	  {"type": "commit", "commitId": "C:1", "createdAt": "2026-02-06T00:00:00Z", "author": "A:x"}]}`
	require.NoError(t, Validate([]byte(doc)))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unsupported version", `{"version": "0.1", "ops": []}`},
		{"v0.3 without graph id", `{"version": "0.3", "ops": []}`},
		{"unknown op type", `{"version": "0.2", "ops": [{"type": "delete_node", "id": "N:1"}]}`},
		{"missing node id", `{"version": "0.2", "ops": [{"type": "add_node", "node": {"kind": "decision",
		  "status": "Active", "createdAt": "2026-02-06T00:00:00Z", "author": "A:x"}}]}`},
		{"non-string author", `{"version": "0.2", "ops": [{"type": "commit", "commitId": "C:1",
		  "createdAt": "2026-02-06T00:00:00Z", "author": 7}]}`},
		{"bad timestamp", `{"version": "0.2", "ops": [{"type": "commit", "commitId": "C:1",
		  "createdAt": "yesterday", "author": "A:x"}]}`},
		{"unknown field", `{"version": "0.2", "ops": [{"type": "commit", "commitId": "C:1",
		  "createdAt": "2026-02-06T00:00:00Z", "author": "A:x", "force": true}]}`},
		{"not json", `{"version": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %T: %v", err, err)
			assert.NotEmpty(t, verr.Problems)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	one := &ValidationError{Problems: []string{"ops.0.type: conflicting values"}}
	assert.Equal(t, "schema: ops.0.type: conflicting values", one.Error())

	two := &ValidationError{Problems: []string{"a", "b"}}
	assert.Equal(t, "schema: 2 problems: a; b", two.Error())
}

func TestSource_DefinesDecisionLog(t *testing.T) {
	assert.Contains(t, Source(), Definition+":")
}
