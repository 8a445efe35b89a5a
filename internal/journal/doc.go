// Package journal records every command the engine processes in an
// append-only SQLite table.
//
// Each engine instance writes under its own session ID (UUIDv7, so sessions
// sort by start time). Rows are keyed by (session_id, seq) where seq is the
// engine's logical clock; all reads order by seq, never by wall time.
//
// The journal is an audit trail. Nothing restores state from it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package journal
