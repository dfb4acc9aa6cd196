// Package engine runs one teleprompter session.
//
// The engine owns a playback.Player and is the only goroutine that mutates
// it. Host commands (keys, mouse clicks) and timer fires are posted to a
// FIFO queue from any goroutine; Run dequeues them one at a time, applies
// them to the Player, and stamps the resulting state onto the session
// trace.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
//  1. Input goroutines call Enqueue with a playback.Command
//  2. Timer goroutines post tick events carrying their timer id
//  3. Run dequeues events in order
//  4. Tick events whose timer was cancelled in the meantime are dropped
//  5. Every applied event is recorded with a seq from the logical Clock
//
// Ticks and commands therefore never interleave inside a transition, and a
// pace change that cancels a timer can never be followed by a fire from
// that timer.
//
// Teardown:
// Close (directly, through CommandClose, or when Run returns) cancels the
// active timer, stops every timer goroutine, records the close event, and
// runs the host's close callback exactly once.
//
// Replay:
// Replay rebuilds a session from its trace by applying the recorded
// commands and ticks in seq order and checks that every resulting state
// matches the recording. Recorded traces never carry wall-clock time, so a
// replay is exact.
package engine
