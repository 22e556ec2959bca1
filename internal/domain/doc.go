// Package domain provides the entity types of the decision ledger.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import domain; domain imports nothing internal.
//
// Key design constraints:
//   - Identifier kinds are distinct string types; conversion is explicit
//   - Nodes and Edges are values; a Graph is copied before it is changed
//   - Iteration helpers return ids in lexicographic order so every
//     algorithm built on top is deterministic
//   - All JSON tags use the camelCase wire names
package domain
