package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/teleprompt/internal/text"
	"github.com/roach88/teleprompt/internal/trace"
)

// SessionSummary is one row of ListSessions.
type SessionSummary struct {
	ID          string `json:"id"`
	ContentHash string `json:"content_hash"`
	WPM         int    `json:"wpm"`
	Words       int    `json:"words"`
	Events      int    `json:"events"`
	Ticks       int    `json:"ticks"`
	Commands    int    `json:"commands"`
}

// ReadSession returns a session by id.
// Returns ErrNotFound if no such session was recorded.
func (s *Store) ReadSession(ctx context.Context, id string) (trace.Session, error) {
	var sess trace.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, content_hash, wpm, step
		FROM sessions
		WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Content, &sess.ContentHash, &sess.WPM, &sess.Step)
	if errors.Is(err, sql.ErrNoRows) {
		return trace.Session{}, fmt.Errorf("read session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return trace.Session{}, fmt.Errorf("read session %q: %w", id, err)
	}
	return sess, nil
}

// ReadEvents returns the trace of a session ordered by seq.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, command, arg, position, state, wpm, progress_bp
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var ev trace.Event
		var kind string
		if err := rows.Scan(
			&ev.SessionID,
			&ev.Seq,
			&kind,
			&ev.Command,
			&ev.Arg,
			&ev.Position,
			&ev.State,
			&ev.WPM,
			&ev.ProgressBP,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = trace.Kind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ListSessions returns a summary of every recorded session, most recently
// recorded first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.content_hash, s.wpm,
		       COUNT(e.seq),
		       COALESCE(SUM(CASE WHEN e.kind = 'tick' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN e.kind = 'command' THEN 1 ELSE 0 END), 0),
		       s.content
		FROM sessions s
		LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.rowid
		ORDER BY s.rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	summaries := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		var content string
		if err := rows.Scan(&sum.ID, &sum.ContentHash, &sum.WPM, &sum.Events, &sum.Ticks, &sum.Commands, &content); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.Words = text.CountWords(content)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return summaries, nil
}

// LatestSessionID returns the id of the most recently recorded session.
// Returns ErrNotFound when the store is empty.
func (s *Store) LatestSessionID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM sessions ORDER BY rowid DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("latest session: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("latest session: %w", err)
	}
	return id, nil
}
