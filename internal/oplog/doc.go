// Package oplog archives decision log batches in SQLite.
//
// The archive is append-only. Each Append records one batch: a graph id,
// an optional source label and the batch's operations in order. Replaying
// Logs() through the kernel rebuilds the store exactly as it was built the
// first time.
//
// # Layout
//
//   - batches: one row per Append, ordered by seq (logical clock, never
//     wall time). id is a UUIDv7 so ids also sort by creation.
//   - operations: one row per operation. body is the wire JSON of the
//     operation, zstd-compressed.
//
// All reads ORDER BY seq, idx so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Enforce referential integrity
package oplog
