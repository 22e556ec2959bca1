// Package kernel applies Operations to a Store.
//
// Apply is pure: it never mutates anything reachable from its input store
// and returns the next store together with exactly one Event. Every
// operation is checked by policy.Constitution before the caller's policy;
// the constitutional checks cannot be skipped.
//
// Batches fold Apply left to right and never stop at a rejection. A
// rejected operation leaves the store as it was, apart from the empty
// target graph Apply creates when the graph id is new.
//
// The kernel does no locking. Callers that share an evolving store between
// goroutines must serialise their writes; readers of an older store value
// are never affected by later Apply calls.
package kernel
