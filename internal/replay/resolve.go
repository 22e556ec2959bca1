package replay

import "github.com/roach88/decisiongraph/internal/domain"

// ResolvedNode is a node together with the graph that owns it.
type ResolvedNode struct {
	GraphID domain.GraphID `json:"graphId"`
	Node    domain.Node    `json:"node"`
}

// ResolvedEdge is an edge together with the graph that owns it.
type ResolvedEdge struct {
	GraphID domain.GraphID `json:"graphId"`
	Edge    domain.Edge    `json:"edge"`
}

// ResolveNode finds id anywhere in s.
func ResolveNode(s domain.Store, id domain.NodeID) (ResolvedNode, bool) {
	gid, n, ok := s.FindNode(id)
	if !ok {
		return ResolvedNode{}, false
	}
	return ResolvedNode{GraphID: gid, Node: n}, true
}

// ResolveEdge finds id anywhere in s.
func ResolveEdge(s domain.Store, id domain.EdgeID) (ResolvedEdge, bool) {
	gid, e, ok := s.FindEdge(id)
	if !ok {
		return ResolvedEdge{}, false
	}
	return ResolvedEdge{GraphID: gid, Edge: e}, true
}
