package store

import (
	"context"
	"fmt"

	"github.com/roach88/teleprompt/internal/trace"
)

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a session already
// recorded under the same id is left untouched.
func (s *Store) WriteSession(ctx context.Context, sess trace.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, content, content_hash, wpm, step)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.Content,
		sess.ContentHash,
		sess.WPM,
		sess.Step,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteEvent appends one trace event.
// Uses ON CONFLICT DO NOTHING on (session_id, seq) so replaying the same
// write is a no-op.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, ev trace.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events
		(session_id, seq, kind, command, arg, position, state, wpm, progress_bp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		ev.SessionID,
		ev.Seq,
		string(ev.Kind),
		ev.Command,
		ev.Arg,
		ev.Position,
		ev.State,
		ev.WPM,
		ev.ProgressBP,
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
