// Package diff compares graphs and stores by node and edge id.
//
// Content equality is deep equality of the decoded JSON form. Key order
// and whitespace inside payloads never register as a change, numbers
// compare by value and strings compare byte for byte. Commits are not
// compared.
package diff

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/decisiongraph/internal/domain"
)

// Result lists ids in lexicographic order. All six slices are non-nil so
// the JSON form always carries empty arrays.
type Result struct {
	AddedNodes   []domain.NodeID `json:"addedNodes"`
	RemovedNodes []domain.NodeID `json:"removedNodes"`
	ChangedNodes []domain.NodeID `json:"changedNodes"`
	AddedEdges   []domain.EdgeID `json:"addedEdges"`
	RemovedEdges []domain.EdgeID `json:"removedEdges"`
	ChangedEdges []domain.EdgeID `json:"changedEdges"`
}

// Empty reports whether a and b had no differences.
func (r Result) Empty() bool {
	return len(r.AddedNodes)+len(r.RemovedNodes)+len(r.ChangedNodes)+
		len(r.AddedEdges)+len(r.RemovedEdges)+len(r.ChangedEdges) == 0
}

// Graphs diffs a against b: added means present in b only, removed means
// present in a only.
func Graphs(a, b *domain.Graph) Result {
	return compare(nodesOf(a), edgesOf(a), nodesOf(b), edgesOf(b))
}

// Stores diffs the flattened union of every graph in a against b. A node
// that moves between graphs with the same id and content is not reported.
func Stores(a, b domain.Store) Result {
	an, ae := flatten(a)
	bn, be := flatten(b)
	return compare(an, ae, bn, be)
}

func compare(an map[domain.NodeID]domain.Node, ae map[domain.EdgeID]domain.Edge,
	bn map[domain.NodeID]domain.Node, be map[domain.EdgeID]domain.Edge) Result {
	r := Result{}
	r.AddedNodes, r.RemovedNodes, r.ChangedNodes = sets(an, bn)
	r.AddedEdges, r.RemovedEdges, r.ChangedEdges = sets(ae, be)
	return r
}

func sets[K ~string, V any](a, b map[K]V) (added, removed, changed []K) {
	added, removed, changed = []K{}, []K{}, []K{}

	for _, k := range slices.Sorted(maps.Keys(b)) {
		if _, ok := a[k]; !ok {
			added = append(added, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(a)) {
		bv, ok := b[k]
		if !ok {
			removed = append(removed, k)
			continue
		}
		if !contentEqual(a[k], bv) {
			changed = append(changed, k)
		}
	}
	return added, removed, changed
}

func nodesOf(g *domain.Graph) map[domain.NodeID]domain.Node {
	if g == nil {
		return nil
	}
	return g.Nodes
}

func edgesOf(g *domain.Graph) map[domain.EdgeID]domain.Edge {
	if g == nil {
		return nil
	}
	return g.Edges
}

// flatten merges every graph of s. On a duplicate id, which only an
// invalid store can hold, the graph that sorts first wins.
func flatten(s domain.Store) (map[domain.NodeID]domain.Node, map[domain.EdgeID]domain.Edge) {
	nodes := make(map[domain.NodeID]domain.Node)
	edges := make(map[domain.EdgeID]domain.Edge)
	for _, gid := range s.GraphIDs() {
		g := s.Graphs[gid]
		for id, n := range g.Nodes {
			if _, dup := nodes[id]; !dup {
				nodes[id] = n
			}
		}
		for id, e := range g.Edges {
			if _, dup := edges[id]; !dup {
				edges[id] = e
			}
		}
	}
	return nodes, edges
}

// contentEqual decodes both values into plain JSON trees, numbers as
// float64, and compares them. Values that cannot be encoded are never
// equal.
func contentEqual(a, b any) bool {
	ta, err := decoded(a)
	if err != nil {
		return false
	}
	tb, err := decoded(b)
	if err != nil {
		return false
	}
	return cmp.Equal(ta, tb)
}

func decoded(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
