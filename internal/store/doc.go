// Package store provides SQLite-backed storage for finished configurations
// and session step logs.
//
// The store is a sink: it records what a session produced and never feeds
// solving state back into a later run.
//
// # Tables
//
//   - configurations: one row per distinct configuration, keyed by its
//     content-addressed id (see internal/fingerprint)
//   - configuration_parts: the six chosen parts, in category order
//   - session_steps: the step trace of each session, keyed by (session, seq)
//
// Writes are idempotent. Saving the same configuration twice keeps the
// first row; writing the same step twice is a no-op.
//
// Reads are deterministic: every list query orders by seq, then id
// COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
