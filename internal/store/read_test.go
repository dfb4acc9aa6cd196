package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/teleprompt/internal/trace"
)

func TestReadSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := createTestSession("s-1", "Hello world")
	if err := s.WriteSession(ctx, want); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}

	got, err := s.ReadSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if got != want {
		t.Errorf("ReadSession() = %+v, want %+v", got, want)
	}
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadSession() error = %v, want ErrNotFound", err)
	}
}

func TestWriteSession_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestSession("s-1", "first")
	if err := s.WriteSession(ctx, first); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	if err := s.WriteSession(ctx, createTestSession("s-1", "second")); err != nil {
		t.Fatalf("second WriteSession() failed: %v", err)
	}

	got, err := s.ReadSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if got.Content != "first" {
		t.Errorf("content = %q, want %q (first write wins)", got.Content, "first")
	}
}

func TestReadEvents_Empty(t *testing.T) {
	s := createTestStore(t)

	events, err := s.ReadEvents(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if events == nil {
		t.Error("events is nil, want empty slice")
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestReadEvents_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteSession(ctx, createTestSession("s-1", "a b c")); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}

	// Written out of order on purpose.
	for _, seq := range []int64{3, 1, 2} {
		if err := s.WriteEvent(ctx, createTestEvent("s-1", seq, trace.KindTick, int(seq))); err != nil {
			t.Fatalf("WriteEvent(%d) failed: %v", seq, err)
		}
	}

	events, err := s.ReadEvents(ctx, "s-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	for i, ev := range events {
		if ev.Seq != int64(i+1) {
			t.Errorf("events[%d].Seq = %d, want %d", i, ev.Seq, i+1)
		}
	}
}

func TestWriteEvent_RoundTripsCommand(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteSession(ctx, createTestSession("s-1", "a b c")); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}

	want := trace.Event{
		SessionID:  "s-1",
		Seq:        1,
		Kind:       trace.KindCommand,
		Command:    "jump",
		Arg:        4,
		Position:   4,
		State:      "paused",
		WPM:        120,
		ProgressBP: 10000,
	}
	if err := s.WriteEvent(ctx, want); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}

	events, err := s.ReadEvents(ctx, "s-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(events) != 1 || events[0] != want {
		t.Errorf("ReadEvents() = %+v, want [%+v]", events, want)
	}
}

func TestWriteEvent_DuplicateSeqIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteSession(ctx, createTestSession("s-1", "a")); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	if err := s.WriteEvent(ctx, createTestEvent("s-1", 1, trace.KindOpen, -1)); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}
	if err := s.WriteEvent(ctx, createTestEvent("s-1", 1, trace.KindTick, 0)); err != nil {
		t.Fatalf("duplicate WriteEvent() failed: %v", err)
	}

	events, err := s.ReadEvents(ctx, "s-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(events) != 1 || events[0].Kind != trace.KindOpen {
		t.Errorf("ReadEvents() = %+v, want the first write only", events)
	}
}

func TestWriteEvent_RequiresSession(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteEvent(context.Background(), createTestEvent("orphan", 1, trace.KindTick, 0))
	if err == nil {
		t.Error("WriteEvent() for unknown session succeeded, want foreign key error")
	}
}

func TestListSessions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteSession(ctx, createTestSession("old", "one two")); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	if err := s.WriteSession(ctx, createTestSession("new", "x")); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	events := []trace.Event{
		createTestEvent("old", 1, trace.KindOpen, -1),
		createTestEvent("old", 2, trace.KindCommand, 0),
		createTestEvent("old", 3, trace.KindTick, 2),
		createTestEvent("old", 4, trace.KindTick, 2),
	}
	for _, ev := range events {
		if err := s.WriteEvent(ctx, ev); err != nil {
			t.Fatalf("WriteEvent() failed: %v", err)
		}
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "new" || sessions[1].ID != "old" {
		t.Errorf("order = [%s %s], want [new old]", sessions[0].ID, sessions[1].ID)
	}

	old := sessions[1]
	if old.Events != 4 || old.Ticks != 2 || old.Commands != 1 || old.Words != 2 {
		t.Errorf("old summary = %+v", old)
	}
	if sessions[0].Events != 0 {
		t.Errorf("new.Events = %d, want 0", sessions[0].Events)
	}
}

func TestLatestSessionID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.LatestSessionID(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestSessionID() on empty store error = %v, want ErrNotFound", err)
	}

	for _, id := range []string{"a", "b"} {
		if err := s.WriteSession(ctx, createTestSession(id, id)); err != nil {
			t.Fatalf("WriteSession() failed: %v", err)
		}
	}

	id, err := s.LatestSessionID(ctx)
	if err != nil {
		t.Fatalf("LatestSessionID() failed: %v", err)
	}
	if id != "b" {
		t.Errorf("LatestSessionID() = %q, want %q", id, "b")
	}
}
