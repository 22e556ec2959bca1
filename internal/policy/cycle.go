package policy

import (
	"fmt"

	"github.com/roach88/decisiongraph/internal/domain"
)

// adjacency maps a node to the targets of its Active outgoing edges.
// roots keeps source nodes in the order they were first seen so the DFS
// start order does not depend on map iteration.
type adjacency struct {
	next  map[domain.NodeID][]domain.NodeID
	roots []domain.NodeID
}

// buildAdjacency collects every Active edge in the store, of any type.
// Edges are visited in lexicographic graph then edge id order.
func buildAdjacency(s domain.Store) adjacency {
	adj := adjacency{next: make(map[domain.NodeID][]domain.NodeID)}
	for _, gid := range s.GraphIDs() {
		g := s.Graphs[gid]
		for _, id := range g.EdgeIDs() {
			e := g.Edges[id]
			if e.Status != domain.StatusActive {
				continue
			}
			if _, seen := adj.next[e.From]; !seen {
				adj.roots = append(adj.roots, e.From)
			}
			adj.next[e.From] = append(adj.next[e.From], e.To)
		}
	}
	return adj
}

// DFS colours.
const (
	white = iota // unvisited
	grey         // on the current DFS path
	black        // fully explored
)

// backEdge is the edge that closes a cycle.
type backEdge struct {
	From, To domain.NodeID
}

func (b backEdge) String() string {
	return fmt.Sprintf("%s → %s", b.From, b.To)
}

// detectCycle runs a three-colour depth-first search over Active edges
// and returns the first back edge found.
//
// Only one witness is reported even when several cycles exist. The colour
// map is allocated per call and never shared.
func detectCycle(s domain.Store) (backEdge, bool) {
	adj := buildAdjacency(s)
	color := make(map[domain.NodeID]int, len(adj.next))

	var witness backEdge
	var visit func(domain.NodeID) bool
	visit = func(n domain.NodeID) bool {
		color[n] = grey
		for _, m := range adj.next[n] {
			switch color[m] {
			case grey:
				witness = backEdge{From: n, To: m}
				return true
			case white:
				if visit(m) {
					return true
				}
			}
		}
		color[n] = black
		return false
	}

	for _, root := range adj.roots {
		if color[root] == white && visit(root) {
			return witness, true
		}
	}
	return backEdge{}, false
}
