package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusSuperseded, StatusDeprecated} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("Retired").Valid())
	assert.False(t, Status("").Valid())
}

func TestEdgeTypeValid(t *testing.T) {
	for _, et := range []EdgeType{EdgeDependsOn, EdgeSupports, EdgeRefutes, EdgeOverrides, EdgeSupersedes} {
		assert.True(t, et.Valid(), et)
	}
	assert.False(t, EdgeType("blocks").Valid())
}

func TestGraphClone_Independent(t *testing.T) {
	g := EmptyGraph("G:a")
	g.Nodes["N:1"] = Node{ID: "N:1"}

	c := g.Clone()
	c.Nodes["N:2"] = Node{ID: "N:2"}
	c.Edges["E:1"] = Edge{ID: "E:1"}
	c.Commits = append(c.Commits, Commit{CommitID: "C:1"})

	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Commits)
	assert.False(t, g.IsCommitted())
	assert.True(t, c.IsCommitted())
}

func TestGraphClone_NilMaps(t *testing.T) {
	g := &Graph{GraphID: "G:a"}
	c := g.Clone()
	require.NotNil(t, c.Nodes)
	require.NotNil(t, c.Edges)
	require.NotNil(t, c.Commits)
}

func TestStoreWithGraph_SharesUntouched(t *testing.T) {
	a := EmptyGraph("G:a")
	b := EmptyGraph("G:b")
	s := EmptyStore().WithGraph("G:a", a).WithGraph("G:b", b)

	b2 := b.Clone()
	s2 := s.WithGraph("G:b", b2)

	assert.Same(t, a, s2.Graphs["G:a"])
	assert.Same(t, b, s.Graphs["G:b"])
	assert.Same(t, b2, s2.Graphs["G:b"])
}

func TestSortedIDs(t *testing.T) {
	g := EmptyGraph("G:a")
	for _, id := range []NodeID{"N:3", "N:1", "N:2"} {
		g.Nodes[id] = Node{ID: id}
	}
	for _, id := range []EdgeID{"E:b", "E:a"} {
		g.Edges[id] = Edge{ID: id}
	}
	assert.Equal(t, []NodeID{"N:1", "N:2", "N:3"}, g.NodeIDs())
	assert.Equal(t, []EdgeID{"E:a", "E:b"}, g.EdgeIDs())

	s := EmptyStore().WithGraph("G:z", EmptyGraph("G:z")).WithGraph("G:a", g)
	assert.Equal(t, []GraphID{"G:a", "G:z"}, s.GraphIDs())
}

func TestStoreLookups(t *testing.T) {
	a := EmptyGraph("G:a")
	a.Nodes["N:1"] = Node{ID: "N:1"}
	b := EmptyGraph("G:b")
	b.Edges["E:1"] = Edge{ID: "E:1", From: "N:1", To: "N:1"}
	b.Commits = []Commit{{CommitID: "C:1"}}
	s := EmptyStore().WithGraph("G:a", a).WithGraph("G:b", b)

	gid, n, ok := s.FindNode("N:1")
	require.True(t, ok)
	assert.Equal(t, GraphID("G:a"), gid)
	assert.Equal(t, NodeID("N:1"), n.ID)

	gid, e, ok := s.FindEdge("E:1")
	require.True(t, ok)
	assert.Equal(t, GraphID("G:b"), gid)
	assert.Equal(t, NodeID("N:1"), e.From)

	_, _, ok = s.FindNode("N:missing")
	assert.False(t, ok)

	assert.True(t, s.HasNode("N:1"))
	assert.True(t, s.HasEdge("E:1"))
	assert.True(t, s.HasCommit("C:1"))
	assert.False(t, s.HasCommit("C:2"))
}

func TestNodeJSON_WireNames(t *testing.T) {
	n := Node{ID: "N:1", Kind: "ADR", Status: StatusActive, CreatedAt: "2026-02-06T00:00:00Z", Author: "A:x"}
	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"N:1","kind":"ADR","status":"Active","createdAt":"2026-02-06T00:00:00Z","author":"A:x"}`, string(data))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, OpAddNode, TypeOf(AddNodeOp{}))
	assert.Equal(t, OpAddEdge, TypeOf(AddEdgeOp{}))
	assert.Equal(t, OpSupersedeEdge, TypeOf(SupersedeEdgeOp{}))
	assert.Equal(t, OpCommit, TypeOf(CommitOp{}))
	assert.Equal(t, OpUnknown, TypeOf(nil))

	assert.True(t, IsMutation(AddEdgeOp{}))
	assert.False(t, IsMutation(CommitOp{}))
	assert.False(t, IsMutation(nil))
}

func TestSortViolations_StableByCodeAndPath(t *testing.T) {
	vs := []Violation{
		{Code: "NODE_ID_DUP", Path: "op.node.id", Message: "first"},
		{Code: "AUTHOR_REQUIRED", Path: "op.node.author"},
		{Code: "NODE_ID_DUP", Path: "op.node.id", Message: "second"},
		{Code: "EDGE_NOT_RESOLVED", Path: "op.edge.to"},
		{Code: "EDGE_NOT_RESOLVED", Path: "op.edge.from"},
	}
	SortViolations(vs)

	got := make([]string, len(vs))
	for i, v := range vs {
		got[i] = v.Code + " " + v.Path + " " + v.Message
	}
	assert.Equal(t, []string{
		"AUTHOR_REQUIRED op.node.author ",
		"EDGE_NOT_RESOLVED op.edge.from ",
		"EDGE_NOT_RESOLVED op.edge.to ",
		"NODE_ID_DUP op.node.id first",
		"NODE_ID_DUP op.node.id second",
	}, got)
}

func TestHasFailure(t *testing.T) {
	warn := []Violation{{Code: "W", Severity: SeverityWarn}}
	info := []Violation{{Code: "I", Severity: SeverityInfo}}
	errs := []Violation{{Code: "E", Severity: SeverityError}}

	assert.False(t, HasFailure(nil, true))
	assert.False(t, HasFailure(warn, false))
	assert.True(t, HasFailure(warn, true))
	assert.False(t, HasFailure(info, true))
	assert.True(t, HasFailure(errs, false))
}

func TestIsISOTimestamp(t *testing.T) {
	assert.True(t, IsISOTimestamp("2026-02-06T00:00:00.000Z"))
	assert.False(t, IsISOTimestamp("2026-02-06"))
	assert.False(t, IsISOTimestamp("2026-02-06T00:00:00+01:00"))
}
