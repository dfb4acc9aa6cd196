package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/teleprompt/internal/trace"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession creates a session with minimal required fields.
func createTestSession(id, content string) trace.Session {
	return trace.Session{
		ID:          id,
		Content:     content,
		ContentHash: trace.ContentHash(content),
		WPM:         120,
		Step:        10,
	}
}

// createTestEvent creates a tick-like event at seq.
func createTestEvent(sessionID string, seq int64, kind trace.Kind, position int) trace.Event {
	return trace.Event{
		SessionID:  sessionID,
		Seq:        seq,
		Kind:       kind,
		Position:   position,
		State:      "playing",
		WPM:        120,
		ProgressBP: 5000,
	}
}
