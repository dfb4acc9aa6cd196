package engine

import (
	"context"
	"fmt"

	"github.com/roach88/teleprompt/internal/trace"
)

// ReplayResult is the outcome of a successful replay.
type ReplayResult struct {
	// Events is the trace produced by the replay. It equals the recording.
	Events []trace.Event
	// Digest is trace.Digest of Events.
	Digest string
	// Final is the last replayed event.
	Final trace.Event
}

// Replay re-runs a recorded session and verifies it.
//
// A fresh engine is built from the session header with a scheduler that
// never fires on its own. Recorded events are then applied in order:
// commands are re-applied, each tick fires the live timer, and the close
// event tears down. After every step the produced event must match the
// recorded one in seq, kind, and resulting state; the first mismatch is
// returned as an ErrCodeDiverged RuntimeError.
//
// Replay is deterministic because nothing in a trace depends on wall time.
func Replay(ctx context.Context, sess trace.Session, recorded []trace.Event) (*ReplayResult, error) {
	steps := newStepScheduler()
	rec := NewMemoryRecorder()
	e := New(sess.Content,
		WithPace(sess.WPM),
		WithStep(sess.Step),
		WithScheduler(steps),
		WithRecorder(rec),
		WithIDGenerator(NewFixedGenerator(sess.ID)),
	)

	for _, want := range recorded {
		before := rec.Len()

		switch want.Kind {
		case trace.KindOpen:
			if err := e.Open(ctx); err != nil {
				return nil, err
			}
		case trace.KindCommand:
			cmd, err := want.ParseCommand()
			if err != nil {
				return nil, &RuntimeError{
					Code:      ErrCodeUnknownCommand,
					Message:   err.Error(),
					SessionID: sess.ID,
					Seq:       want.Seq,
				}
			}
			if err := e.Apply(ctx, cmd); err != nil {
				return nil, fmt.Errorf("replay seq %d: %w", want.Seq, err)
			}
		case trace.KindTick:
			steps.fire()
		case trace.KindClose:
			e.Close(ctx)
		default:
			return nil, &RuntimeError{
				Code:      ErrCodeUnknownEvent,
				Message:   fmt.Sprintf("unknown event kind %q", want.Kind),
				SessionID: sess.ID,
				Seq:       want.Seq,
			}
		}

		events := rec.Events()
		if len(events) != before+1 {
			return nil, NewDivergenceError(sess.ID, want, nil)
		}
		got := events[before]
		if got.Seq != want.Seq || got.Kind != want.Kind || !got.SameState(want) {
			return nil, NewDivergenceError(sess.ID, want, &got)
		}
	}

	events := rec.Events()
	digest, err := trace.Digest(events)
	if err != nil {
		return nil, fmt.Errorf("digest replay: %w", err)
	}
	result := &ReplayResult{Events: events, Digest: digest}
	if len(events) > 0 {
		result.Final = events[len(events)-1]
	}
	return result, nil
}
