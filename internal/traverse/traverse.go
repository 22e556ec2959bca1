// Package traverse follows dependency chains through a store for
// human-facing explanations of violations.
package traverse

import (
	"regexp"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/policy"
)

// DefaultMaxDepth bounds the number of hops TraceDependencyPath takes.
const DefaultMaxDepth = 10

// Step is one node on a traced path. The first step is the start node and
// carries no edge fields.
type Step struct {
	NodeID     domain.NodeID   `json:"nodeId"`
	GraphID    domain.GraphID  `json:"graphId"`
	EdgeID     domain.EdgeID   `json:"edgeId,omitempty"`
	EdgeType   domain.EdgeType `json:"edgeType,omitempty"`
	EdgeStatus domain.Status   `json:"edgeStatus,omitempty"`
}

// TraceDependencyPath walks greedily from start along depends_on and
// supersedes edges of any status, across graph boundaries.
//
// At each node the first qualifying edge wins: graphs in id order, then
// edges in id order. An edge whose target is already on the path, or does
// not resolve, is skipped. The walk stops after maxDepth hops or when no
// edge qualifies. A start node missing from s yields an empty path; a
// maxDepth <= 0 yields just the start.
func TraceDependencyPath(s domain.Store, start domain.NodeID, maxDepth int) []Step {
	gid, _, ok := s.FindNode(start)
	if !ok {
		return []Step{}
	}

	path := []Step{{NodeID: start, GraphID: gid}}
	visited := map[domain.NodeID]bool{start: true}

	current := start
	for depth := 0; depth < maxDepth; depth++ {
		step, ok := nextStep(s, current, visited)
		if !ok {
			break
		}
		path = append(path, step)
		visited[step.NodeID] = true
		current = step.NodeID
	}
	return path
}

func nextStep(s domain.Store, from domain.NodeID, visited map[domain.NodeID]bool) (Step, bool) {
	for _, gid := range s.GraphIDs() {
		g := s.Graphs[gid]
		for _, id := range g.EdgeIDs() {
			e := g.Edges[id]
			if e.From != from || visited[e.To] || !follows(e.Type) {
				continue
			}
			owner, _, ok := s.FindNode(e.To)
			if !ok {
				continue
			}
			return Step{
				NodeID:     e.To,
				GraphID:    owner,
				EdgeID:     e.ID,
				EdgeType:   e.Type,
				EdgeStatus: e.Status,
			}, true
		}
	}
	return Step{}, false
}

func follows(t domain.EdgeType) bool {
	return t == domain.EdgeDependsOn || t == domain.EdgeSupersedes
}

// ViolationTrace is a violation with the dependency chain that explains it.
type ViolationTrace struct {
	domain.Violation
	Chain []Step `json:"chain"`
}

var (
	nodeAnchor = regexp.MustCompile(`\.nodes\.(.+)\.[^.]+$`)
	edgeAnchor = regexp.MustCompile(`\.edges\.(.+)\.[^.]+$`)
)

// BuildViolationTraces attaches a chain to every violation, in order.
//
// The anchor is the node named in the path, else the from node of the
// edge named in the path, else the fromNodeId payload. Each candidate must
// resolve in s. A violation without a resolvable anchor gets an empty
// chain.
func BuildViolationTraces(s domain.Store, vs []domain.Violation) []ViolationTrace {
	return TraceViolations(s, vs, DefaultMaxDepth)
}

// TraceViolations is BuildViolationTraces with chains bounded by maxDepth.
func TraceViolations(s domain.Store, vs []domain.Violation, maxDepth int) []ViolationTrace {
	out := make([]ViolationTrace, 0, len(vs))
	for _, v := range vs {
		chain := []Step{}
		if start, ok := Anchor(s, v); ok {
			chain = TraceDependencyPath(s, start, maxDepth)
		}
		out = append(out, ViolationTrace{Violation: v, Chain: chain})
	}
	return out
}

// Anchor returns the node a violation's explanation starts from. Ids may
// contain dots; the last path segment is always the field name.
func Anchor(s domain.Store, v domain.Violation) (domain.NodeID, bool) {
	if m := nodeAnchor.FindStringSubmatch(v.Path); m != nil {
		if id := domain.NodeID(m[1]); resolves(s, id) {
			return id, true
		}
	}
	if m := edgeAnchor.FindStringSubmatch(v.Path); m != nil {
		if _, e, ok := s.FindEdge(domain.EdgeID(m[1])); ok && resolves(s, e.From) {
			return e.From, true
		}
	}
	if from := domain.NodeID(v.Payload[policy.PayloadFromNodeID]); from != "" && resolves(s, from) {
		return from, true
	}
	return "", false
}

func resolves(s domain.Store, id domain.NodeID) bool {
	_, _, ok := s.FindNode(id)
	return ok
}
