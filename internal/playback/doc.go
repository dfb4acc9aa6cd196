// Package playback implements the pacing engine of a reading session.
//
// A Player owns everything that belongs to one piece of content: the token
// sequence, its word index, the current position, the play state and the
// pace. Timed advances go through an injected Scheduler so the same state
// machine runs against a wall clock in the terminal host and against a
// simulated clock in tests.
//
// STATE MACHINE:
//
//	Paused  --Start/Toggle-->  Playing   (position := first word if unset)
//	Playing --Pause/Toggle-->  Paused
//	Playing --Tick at last-->  Paused    (position unchanged, terminal)
//	any     --JumpTo(word)-->  Paused    (explicit jumps interrupt autoplay)
//	any     --Reset-->         Paused    (position := None)
//
// TIMER DISCIPLINE:
// At most one timer is active. Every transition that leaves Playing, jumps,
// or changes the interval cancels the pending timer before doing anything
// else, so a stale tick can never fire after the transition.
//
// A Player is not safe for concurrent use. Callers serialize access, see
// package engine for the single-writer runtime.
package playback
