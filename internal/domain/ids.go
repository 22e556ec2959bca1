package domain

// NodeID identifies a Node. Unique across the whole Store.
type NodeID string

// EdgeID identifies an Edge. Unique across the whole Store.
type EdgeID string

// AuthorID identifies the author of a Node, Edge or Commit.
type AuthorID string

// CommitID identifies a Commit. Unique across the whole Store.
type CommitID string

// GraphID identifies a Graph within a Store.
type GraphID string

// DefaultGraphID is the graph used for single-graph (version 0.2) logs.
const DefaultGraphID GraphID = "G:default"
