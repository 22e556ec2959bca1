package testutil

import (
	"fmt"

	"github.com/roach88/decisiongraph/internal/domain"
)

// DefaultAuthor is the author stamped on entities built by this package.
const DefaultAuthor domain.AuthorID = "agent:test"

// Fixed is the createdAt used by the builders when no clock is involved.
const Fixed = "2026-01-01T00:00:00Z"

// Node returns an Active decision node with a fixed timestamp and author.
func Node(id domain.NodeID) domain.Node {
	return domain.Node{
		ID:        id,
		Kind:      "decision",
		Status:    domain.StatusActive,
		CreatedAt: Fixed,
		Author:    DefaultAuthor,
	}
}

// NodeWithStatus returns Node(id) with the given status.
func NodeWithStatus(id domain.NodeID, st domain.Status) domain.Node {
	n := Node(id)
	n.Status = st
	return n
}

// Edge returns an Active edge of type t from -> to.
func Edge(id domain.EdgeID, t domain.EdgeType, from, to domain.NodeID) domain.Edge {
	return domain.Edge{
		ID:        id,
		Type:      t,
		From:      from,
		To:        to,
		Status:    domain.StatusActive,
		CreatedAt: Fixed,
		Author:    DefaultAuthor,
	}
}

// DependsOn is shorthand for an Active depends_on Edge.
func DependsOn(id domain.EdgeID, from, to domain.NodeID) domain.Edge {
	return Edge(id, domain.EdgeDependsOn, from, to)
}

// Commit returns a commit operation with the default author.
func Commit(id domain.CommitID) domain.CommitOp {
	return domain.CommitOp{CommitID: id, CreatedAt: Fixed, Author: DefaultAuthor}
}

// GraphBuilder assembles a Graph directly, bypassing the kernel. Use it
// to construct stores that are invalid on purpose.
type GraphBuilder struct {
	g *domain.Graph
}

// NewGraph starts a builder for an empty graph.
func NewGraph(id domain.GraphID) *GraphBuilder {
	return &GraphBuilder{g: domain.EmptyGraph(id)}
}

// Nodes adds nodes keyed by their ids.
func (b *GraphBuilder) Nodes(ns ...domain.Node) *GraphBuilder {
	for _, n := range ns {
		b.g.Nodes[n.ID] = n
	}
	return b
}

// Edges adds edges keyed by their ids.
func (b *GraphBuilder) Edges(es ...domain.Edge) *GraphBuilder {
	for _, e := range es {
		b.g.Edges[e.ID] = e
	}
	return b
}

// Committed appends a commit record.
func (b *GraphBuilder) Committed(id domain.CommitID) *GraphBuilder {
	b.g.Commits = append(b.g.Commits, domain.Commit{CommitID: id, CreatedAt: Fixed, Author: DefaultAuthor})
	return b
}

// Build returns the assembled graph.
func (b *GraphBuilder) Build() *domain.Graph {
	return b.g
}

// Store returns a store holding the given graphs.
// It panics on a duplicate graph id since that is a bug in the test.
func Store(gs ...*domain.Graph) domain.Store {
	s := domain.EmptyStore()
	for _, g := range gs {
		if _, dup := s.Graphs[g.GraphID]; dup {
			panic(fmt.Sprintf("testutil: duplicate graph %s", g.GraphID))
		}
		s.Graphs[g.GraphID] = g
	}
	return s
}

// Codes extracts the violation codes in order.
func Codes(vs []domain.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}
