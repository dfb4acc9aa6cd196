// Package store provides SQLite-backed storage for session traces.
//
// A trace is append-only: one sessions row per playback session and one
// events row per open, command, tick, or close, keyed by (session_id, seq).
// Writes use ON CONFLICT DO NOTHING so re-recording a session is harmless.
//
// # Ordering
//
// All reads order by seq ASC. Wall-clock time is never stored, so a trace
// read back is identical to the one produced by replaying its commands.
//
// # Schema versions
//
// The base schema is created on every Open. Later changes are migrations
// keyed by PRAGMA user_version, so a trace log written by an older build
// opens and upgrades in place.
package store
