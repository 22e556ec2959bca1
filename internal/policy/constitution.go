package policy

import (
	"fmt"

	"github.com/roach88/decisiongraph/internal/domain"
)

// Constitution is the non-bypassable invariant engine. It has no state;
// the zero value is ready to use and safe for concurrent callers.
type Constitution struct{}

var _ Policy = Constitution{}

// ValidateOperation runs the operation-scoped checks for op against the
// graph graphID of s. The graph need not exist yet.
func (Constitution) ValidateOperation(s domain.Store, graphID domain.GraphID, op domain.Operation) []domain.Violation {
	var vs []domain.Violation

	committed := false
	if g, ok := s.Graph(graphID); ok {
		committed = g.IsCommitted()
	}

	if committed && domain.IsMutation(op) {
		vs = append(vs, violation(CodeImmutableAfterCommit, "graph is immutable after commit", "graph.commits"))
	}

	switch o := op.(type) {
	case domain.AddNodeOp:
		vs = append(vs, checkAddNode(s, o)...)
	case domain.AddEdgeOp:
		vs = append(vs, checkAddEdge(s, o)...)
	case domain.SupersedeEdgeOp:
		vs = append(vs, checkSupersedeEdge(s, graphID, o)...)
	case domain.CommitOp:
		if committed {
			vs = append(vs, violation(CodeCommitAlreadyExists, "commit already exists", "graph.commits"))
		}
		vs = append(vs, checkCommit(s, o)...)
	}

	domain.SortViolations(vs)
	return vs
}

func checkAddNode(s domain.Store, op domain.AddNodeOp) []domain.Violation {
	var vs []domain.Violation
	n := op.Node

	if n.Author == "" {
		vs = append(vs, violation(CodeAuthorRequired, "author is required", "op.node.author"))
	}
	if n.ID == "" {
		vs = append(vs, violation(CodeNodeIDRequired, "node id is required", "op.node.id"))
	}
	if s.HasNode(n.ID) {
		vs = append(vs, violation(CodeNodeIDDup, "node id already exists in GraphStore", "op.node.id"))
	}
	if !n.Status.Valid() {
		vs = append(vs, violation(CodeInvalidNodeStatus, "invalid node status", "op.node.status"))
	}
	return vs
}

func checkAddEdge(s domain.Store, op domain.AddEdgeOp) []domain.Violation {
	var vs []domain.Violation
	e := op.Edge

	if e.Author == "" {
		vs = append(vs, violation(CodeAuthorRequired, "author is required", "op.edge.author"))
	}
	vs = append(vs, checkEdgeFields(s, e, "op.edge")...)

	if !s.HasNode(e.From) {
		vs = append(vs, violationFrom(CodeEdgeNotResolved,
			fmt.Sprintf("from node '%s' not found in GraphStore", e.From), "op.edge.from", e.From))
	}
	if !s.HasNode(e.To) {
		vs = append(vs, violationFrom(CodeEdgeNotResolved,
			fmt.Sprintf("to node '%s' not found in GraphStore", e.To), "op.edge.to", e.From))
	}
	return vs
}

func checkSupersedeEdge(s domain.Store, graphID domain.GraphID, op domain.SupersedeEdgeOp) []domain.Violation {
	var vs []domain.Violation

	if op.NewEdge.Author == "" {
		vs = append(vs, violation(CodeAuthorRequired, "author is required", "op.newEdge.author"))
	}

	owner, old, found := s.FindEdge(op.OldEdgeID)
	if !found {
		vs = append(vs, violation(CodeEdgeNotFound, "oldEdgeId not found in GraphStore", "op.oldEdgeId"))
	} else {
		if old.Status != domain.StatusActive {
			vs = append(vs, violation(CodeEdgeNotActive, "old edge must be Active to supersede", "op.oldEdgeId"))
		}
		// The old edge is flipped in its owning graph, which must still be open.
		if owner != graphID && s.Graphs[owner].IsCommitted() {
			vs = append(vs, violation(CodeImmutableAfterCommit,
				fmt.Sprintf("graph '%s' owning the old edge is immutable after commit", owner),
				fmt.Sprintf("graphs.%s.commits", owner)))
		}
	}

	if op.NewEdge.ID == op.OldEdgeID {
		vs = append(vs, violation(CodeSupersedeRequiresNewEdgeID, "newEdge.id must differ from oldEdgeId", "op.newEdge.id"))
	}

	vs = append(vs, checkEdgeFields(s, op.NewEdge, "op.newEdge")...)
	if op.NewEdge.Status != domain.StatusActive {
		vs = append(vs, violation(CodeNewEdgeNotActive, "new edge must be Active", "op.newEdge.status"))
	}
	return vs
}

// checkEdgeFields covers the id, type and status checks shared by
// add_edge and the new edge of supersede_edge.
func checkEdgeFields(s domain.Store, e domain.Edge, prefix string) []domain.Violation {
	var vs []domain.Violation

	if e.ID == "" {
		vs = append(vs, violation(CodeEdgeIDRequired, "edge id is required", prefix+".id"))
	}
	if s.HasEdge(e.ID) {
		vs = append(vs, violation(CodeEdgeIDDup, "edge id already exists in GraphStore", prefix+".id"))
	}
	if !e.Type.Valid() {
		vs = append(vs, violation(CodeInvalidEdgeType, "invalid edge type", prefix+".type"))
	}
	if !e.Status.Valid() {
		vs = append(vs, violation(CodeInvalidEdgeStatus, "invalid edge status", prefix+".status"))
	}
	return vs
}

func checkCommit(s domain.Store, op domain.CommitOp) []domain.Violation {
	var vs []domain.Violation
	if op.Author == "" {
		vs = append(vs, violation(CodeAuthorRequired, "author is required", "op.author"))
	}
	if s.HasCommit(op.CommitID) {
		vs = append(vs, violation(CodeCommitIDDup, "commitId already exists in GraphStore", "op.commitId"))
	}
	return vs
}

// ValidateStore runs the whole-store checks. Graphs, nodes and edges are
// visited in lexicographic id order, commits in log order.
func (Constitution) ValidateStore(s domain.Store) []domain.Violation {
	var vs []domain.Violation

	seenNodes := make(map[domain.NodeID]bool)
	seenEdges := make(map[domain.EdgeID]bool)
	seenCommits := make(map[domain.CommitID]bool)

	for _, gid := range s.GraphIDs() {
		g := s.Graphs[gid]

		for _, id := range g.NodeIDs() {
			n := g.Nodes[id]
			base := fmt.Sprintf("graphs.%s.nodes.%s", gid, id)

			if n.Author == "" {
				vs = append(vs, violation(CodeAuthorRequired, "author is required", base+".author"))
			}
			if n.ID == "" {
				vs = append(vs, violation(CodeNodeIDRequired, "node id is required", base+".id"))
			}
			if seenNodes[n.ID] {
				vs = append(vs, violation(CodeNodeIDDup, "node id already exists in GraphStore", base+".id"))
			}
			seenNodes[n.ID] = true
			if !n.Status.Valid() {
				vs = append(vs, violation(CodeInvalidNodeStatus, "invalid node status", base+".status"))
			}
		}

		for _, id := range g.EdgeIDs() {
			e := g.Edges[id]
			base := fmt.Sprintf("graphs.%s.edges.%s", gid, id)

			if e.Author == "" {
				vs = append(vs, violation(CodeAuthorRequired, "author is required", base+".author"))
			}
			if e.ID == "" {
				vs = append(vs, violation(CodeEdgeIDRequired, "edge id is required", base+".id"))
			}
			if seenEdges[e.ID] {
				vs = append(vs, violation(CodeEdgeIDDup, "edge id already exists in GraphStore", base+".id"))
			}
			seenEdges[e.ID] = true
			if !e.Type.Valid() {
				vs = append(vs, violation(CodeInvalidEdgeType, "invalid edge type", base+".type"))
			}
			if !e.Status.Valid() {
				vs = append(vs, violation(CodeInvalidEdgeStatus, "invalid edge status", base+".status"))
			}

			if !s.HasNode(e.From) {
				vs = append(vs, violationFrom(CodeEdgeNotResolved,
					fmt.Sprintf("from node '%s' not found in GraphStore", e.From), base+".from", e.From))
			}

			_, target, resolved := s.FindNode(e.To)
			switch {
			case !resolved:
				vs = append(vs, violationFrom(CodeEdgeNotResolved,
					fmt.Sprintf("to node '%s' not found in GraphStore", e.To), base+".to", e.From))
			case e.Status == domain.StatusActive && e.Type == domain.EdgeDependsOn && target.Status == domain.StatusSuperseded:
				vs = append(vs, violationFrom(CodeDependencyOnSuperseded,
					fmt.Sprintf("depends_on target '%s' is Superseded", e.To), base+".to", e.From))
			}
		}

		for i, c := range g.Commits {
			if seenCommits[c.CommitID] {
				vs = append(vs, violation(CodeCommitIDDup, "commitId already exists in GraphStore",
					fmt.Sprintf("graphs.%s.commits.%d.commitId", gid, i)))
			}
			seenCommits[c.CommitID] = true
		}
	}

	if witness, ok := detectCycle(s); ok {
		vs = append(vs, violationFrom(CodeCircularDependency,
			fmt.Sprintf("circular dependency detected: %s", witness), PathStoreEdges, witness.From))
	}

	domain.SortViolations(vs)
	return vs
}
