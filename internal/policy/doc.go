// Package policy implements the governance rules applied to every
// operation and every store snapshot.
//
// The Constitution is the non-bypassable invariant engine. The kernel runs
// it before any caller-supplied Policy, so a permissive caller policy can
// add checks but never remove one.
//
// Constitutional invariants:
//   - NodeId, EdgeId and CommitId are unique across the whole store
//   - A graph with a commit rejects every further mutating operation
//   - Every edge endpoint resolves to a node somewhere in the store
//   - An Active depends_on edge must not target a Superseded node
//   - supersede_edge needs an Active old edge and a distinct Active new edge
//   - Active edges form no directed cycle store-wide
//
// Violations are returned sorted by code+path so diagnostics are
// byte-identical across runs.
package policy
