package domain

import (
	"encoding/json"
	"maps"
	"slices"
)

// Status is the lifecycle state shared by Nodes and Edges.
type Status string

const (
	StatusActive     Status = "Active"
	StatusSuperseded Status = "Superseded"
	StatusDeprecated Status = "Deprecated"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuperseded, StatusDeprecated:
		return true
	}
	return false
}

// EdgeType is the relationship an Edge expresses.
type EdgeType string

const (
	EdgeDependsOn  EdgeType = "depends_on"
	EdgeSupports   EdgeType = "supports"
	EdgeRefutes    EdgeType = "refutes"
	EdgeOverrides  EdgeType = "overrides"
	EdgeSupersedes EdgeType = "supersedes"
)

// Valid reports whether t is one of the known edge types.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeDependsOn, EdgeSupports, EdgeRefutes, EdgeOverrides, EdgeSupersedes:
		return true
	}
	return false
}

// Node is a single decision. Created by add_node and never mutated.
type Node struct {
	ID        NodeID          `json:"id"`
	Kind      string          `json:"kind"`
	Status    Status          `json:"status"`
	CreatedAt string          `json:"createdAt"`
	Author    AuthorID        `json:"author"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Edge relates two Nodes. From and To may live in different Graphs.
type Edge struct {
	ID        EdgeID          `json:"id"`
	Type      EdgeType        `json:"type"`
	From      NodeID          `json:"from"`
	To        NodeID          `json:"to"`
	Status    Status          `json:"status"`
	CreatedAt string          `json:"createdAt"`
	Author    AuthorID        `json:"author"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Commit is an append-only marker. A Graph with a Commit is immutable.
type Commit struct {
	CommitID  CommitID `json:"commitId"`
	CreatedAt string   `json:"createdAt"`
	Author    AuthorID `json:"author"`
}

// Graph is a collection of Nodes, Edges and Commits.
//
// A *Graph reachable from a Store must be treated as read-only; the kernel
// clones a Graph before changing it and other Stores may share the pointer.
type Graph struct {
	GraphID GraphID         `json:"graphId"`
	Nodes   map[NodeID]Node `json:"nodes"`
	Edges   map[EdgeID]Edge `json:"edges"`
	Commits []Commit        `json:"commits"`
}

// EmptyGraph returns a Graph with no content.
func EmptyGraph(id GraphID) *Graph {
	return &Graph{
		GraphID: id,
		Nodes:   map[NodeID]Node{},
		Edges:   map[EdgeID]Edge{},
		Commits: []Commit{},
	}
}

// Clone returns a copy whose maps and commit list can be changed freely.
// Node and Edge values are copied; payload bytes are shared and never written.
func (g *Graph) Clone() *Graph {
	next := &Graph{
		GraphID: g.GraphID,
		Nodes:   maps.Clone(g.Nodes),
		Edges:   maps.Clone(g.Edges),
		Commits: slices.Clone(g.Commits),
	}
	if next.Nodes == nil {
		next.Nodes = map[NodeID]Node{}
	}
	if next.Edges == nil {
		next.Edges = map[EdgeID]Edge{}
	}
	if next.Commits == nil {
		next.Commits = []Commit{}
	}
	return next
}

// IsCommitted reports whether the Graph has at least one Commit.
func (g *Graph) IsCommitted() bool {
	return len(g.Commits) > 0
}

// NodeIDs returns node ids in lexicographic order.
func (g *Graph) NodeIDs() []NodeID {
	return slices.Sorted(maps.Keys(g.Nodes))
}

// EdgeIDs returns edge ids in lexicographic order.
func (g *Graph) EdgeIDs() []EdgeID {
	return slices.Sorted(maps.Keys(g.Edges))
}

// Store is the top-level container of Graphs. Identity uniqueness of
// nodes, edges and commits is enforced store-wide.
//
// Store is a persistent value: the kernel never writes to a Store it was
// given, so earlier snapshots stay valid while later ones are computed.
type Store struct {
	Graphs map[GraphID]*Graph `json:"graphs"`
}

// EmptyStore returns a Store with no Graphs.
func EmptyStore() Store {
	return Store{Graphs: map[GraphID]*Graph{}}
}

// GraphIDs returns graph ids in lexicographic order.
func (s Store) GraphIDs() []GraphID {
	return slices.Sorted(maps.Keys(s.Graphs))
}

// Graph returns the Graph with the given id, if present.
func (s Store) Graph(id GraphID) (*Graph, bool) {
	g, ok := s.Graphs[id]
	return g, ok
}

// WithGraph returns a new Store in which id maps to g. All other Graphs
// are shared with s.
func (s Store) WithGraph(id GraphID, g *Graph) Store {
	next := make(map[GraphID]*Graph, len(s.Graphs)+1)
	for k, v := range s.Graphs {
		next[k] = v
	}
	next[id] = g
	return Store{Graphs: next}
}

// FindNode returns the first Node with the given id, scanning graphs in
// lexicographic order.
func (s Store) FindNode(id NodeID) (GraphID, Node, bool) {
	for _, gid := range s.GraphIDs() {
		if n, ok := s.Graphs[gid].Nodes[id]; ok {
			return gid, n, true
		}
	}
	return "", Node{}, false
}

// FindEdge returns the first Edge with the given id, scanning graphs in
// lexicographic order.
func (s Store) FindEdge(id EdgeID) (GraphID, Edge, bool) {
	for _, gid := range s.GraphIDs() {
		if e, ok := s.Graphs[gid].Edges[id]; ok {
			return gid, e, true
		}
	}
	return "", Edge{}, false
}

// HasNode reports whether any Graph holds a Node with the given id.
func (s Store) HasNode(id NodeID) bool {
	for _, g := range s.Graphs {
		if _, ok := g.Nodes[id]; ok {
			return true
		}
	}
	return false
}

// HasEdge reports whether any Graph holds an Edge with the given id.
func (s Store) HasEdge(id EdgeID) bool {
	for _, g := range s.Graphs {
		if _, ok := g.Edges[id]; ok {
			return true
		}
	}
	return false
}

// HasCommit reports whether any Graph holds a Commit with the given id.
func (s Store) HasCommit(id CommitID) bool {
	for _, g := range s.Graphs {
		for _, c := range g.Commits {
			if c.CommitID == id {
				return true
			}
		}
	}
	return false
}

// GraphLog is the ordered operation log of one Graph; the unit of replay.
type GraphLog struct {
	GraphID GraphID     `json:"graphId"`
	Ops     []Operation `json:"-"`
}
