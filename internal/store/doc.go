// Package store provides SQLite-backed persistence for resolved declaration
// graphs.
//
// Each distinct graph is stored once as a build, identified by a random UUID
// and deduplicated by its content hash. Every timeline entry of every
// declaration becomes one revision row carrying its interval on the version
// axis and its canonical JSON content, so "as of version V" questions are
// answered with a range query and no recompilation.
//
// # Ordering
//
//   - Builds are ordered by seq, a logical counter assigned at write time.
//   - Revisions are ordered by ord (graph registration order), then since_idx.
//   - Wall-clock timestamps are never used for ordering.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: 5 second wait on lock contention
//   - foreign_keys=ON: Enforce referential integrity
package store
