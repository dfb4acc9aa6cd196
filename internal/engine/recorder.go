package engine

import (
	"context"
	"sync"

	"github.com/roach88/teleprompt/internal/trace"
)

// Recorder persists a session trace. *store.Store implements it.
//
// Recorder errors never stop a session: the engine logs them and carries
// on, so a full disk costs the trace, not the playback.
type Recorder interface {
	WriteSession(ctx context.Context, sess trace.Session) error
	WriteEvent(ctx context.Context, ev trace.Event) error
}

// MemoryRecorder keeps a trace in memory. Used by the harness, replay,
// and the inspect command.
//
// Thread-safety: safe for concurrent use.
type MemoryRecorder struct {
	mu      sync.Mutex
	session trace.Session
	events  []trace.Event
}

// NewMemoryRecorder returns an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// WriteSession implements Recorder.
func (r *MemoryRecorder) WriteSession(_ context.Context, sess trace.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = sess
	return nil
}

// WriteEvent implements Recorder.
func (r *MemoryRecorder) WriteEvent(_ context.Context, ev trace.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Session returns the recorded session.
func (r *MemoryRecorder) Session() trace.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Events returns a copy of the recorded events in order.
func (r *MemoryRecorder) Events() []trace.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]trace.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *MemoryRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// multiRecorder fans writes out to several recorders, returning the first
// error.
type multiRecorder []Recorder

func (m multiRecorder) WriteSession(ctx context.Context, sess trace.Session) error {
	var first error
	for _, r := range m {
		if err := r.WriteSession(ctx, sess); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiRecorder) WriteEvent(ctx context.Context, ev trace.Event) error {
	var first error
	for _, r := range m {
		if err := r.WriteEvent(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
