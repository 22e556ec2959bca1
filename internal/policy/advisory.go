package policy

import (
	"fmt"
	"slices"

	"github.com/roach88/decisiongraph/internal/domain"
)

// Advisory is a configurable caller policy layered on top of the
// Constitution.
//
// AllowedKinds, when non-empty, gates add_node: a node whose kind is not
// listed is rejected with UNKNOWN_NODE_KIND.
//
// DeprecatedDependency, when set, flags Active depends_on edges whose
// target node is Deprecated with DEPENDENCY_ON_DEPRECATED at that
// severity during store validation.
type Advisory struct {
	AllowedKinds         []string
	DeprecatedDependency domain.Severity
}

var _ Policy = Advisory{}

func (a Advisory) ValidateOperation(_ domain.Store, _ domain.GraphID, op domain.Operation) []domain.Violation {
	add, ok := op.(domain.AddNodeOp)
	if !ok || len(a.AllowedKinds) == 0 {
		return nil
	}
	if slices.Contains(a.AllowedKinds, add.Node.Kind) {
		return nil
	}
	return []domain.Violation{violation(CodeUnknownNodeKind,
		fmt.Sprintf("node kind '%s' is not in the allowed kinds %v", add.Node.Kind, a.AllowedKinds),
		"op.node.kind")}
}

func (a Advisory) ValidateStore(s domain.Store) []domain.Violation {
	if a.DeprecatedDependency == "" {
		return nil
	}

	var vs []domain.Violation
	for _, gid := range s.GraphIDs() {
		g := s.Graphs[gid]
		for _, id := range g.EdgeIDs() {
			e := g.Edges[id]
			if e.Status != domain.StatusActive || e.Type != domain.EdgeDependsOn {
				continue
			}
			_, target, ok := s.FindNode(e.To)
			if !ok || target.Status != domain.StatusDeprecated {
				continue
			}
			v := violationFrom(CodeDependencyOnDeprecated,
				fmt.Sprintf("depends_on target '%s' is Deprecated", e.To),
				fmt.Sprintf("graphs.%s.edges.%s.to", gid, id), e.From)
			v.Severity = a.DeprecatedDependency
			vs = append(vs, v)
		}
	}

	domain.SortViolations(vs)
	return vs
}
