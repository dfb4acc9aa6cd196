package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/teleprompt/internal/playback"
)

// ScheduleRecord captures one Schedule call on a ManualScheduler.
type ScheduleRecord struct {
	ID       playback.TimerID
	Interval time.Duration
	At       time.Duration // simulated time of the call
}

type manualTimer struct {
	id       playback.TimerID
	interval time.Duration
	due      time.Duration
	fn       func()
}

// ManualScheduler is a simulated clock implementing playback.Scheduler.
//
// Time only moves when Advance is called. Timers fire in due order (ties
// broken by id) on the goroutine calling Advance, so tests drive a Player
// exactly like the single-writer runtime does.
//
// Thread-safety: all methods are safe for concurrent use. Timer callbacks
// run without the internal lock held, so they may Schedule and Cancel.
type ManualScheduler struct {
	mu        sync.Mutex
	now       time.Duration
	nextID    playback.TimerID
	timers    map[playback.TimerID]*manualTimer
	scheduled []ScheduleRecord
	cancelled []playback.TimerID
	fired     int
}

// NewManualScheduler creates a scheduler at simulated time 0.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[playback.TimerID]*manualTimer)}
}

// Schedule implements playback.Scheduler.
func (s *ManualScheduler) Schedule(interval time.Duration, fn func()) playback.TimerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.timers[id] = &manualTimer{id: id, interval: interval, due: s.now + interval, fn: fn}
	s.scheduled = append(s.scheduled, ScheduleRecord{ID: id, Interval: interval, At: s.now})
	return id
}

// Cancel implements playback.Scheduler.
func (s *ManualScheduler) Cancel(id playback.TimerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[id]; !ok {
		return
	}
	delete(s.timers, id)
	s.cancelled = append(s.cancelled, id)
}

// Advance moves simulated time forward by d, firing every timer that comes
// due on the way. Returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		t := s.earliestLocked()
		if t == nil || t.due > target {
			s.now = target
			s.mu.Unlock()
			return fired
		}
		s.now = t.due
		t.due += t.interval
		fn := t.fn
		s.fired++
		s.mu.Unlock()

		fn()
		fired++
	}
}

func (s *ManualScheduler) earliestLocked() *manualTimer {
	var best *manualTimer
	for _, t := range s.timers {
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}

// Now returns the simulated time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Active returns the ids of timers that have not been cancelled, ascending.
func (s *ManualScheduler) Active() []playback.TimerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]playback.TimerID, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Interval returns the interval of an active timer.
func (s *ManualScheduler) Interval(id playback.TimerID) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return 0, false
	}
	return t.interval, true
}

// Scheduled returns every Schedule call so far, in order.
func (s *ManualScheduler) Scheduled() []ScheduleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ScheduleRecord(nil), s.scheduled...)
}

// Cancelled returns the ids passed to Cancel that were active, in order.
func (s *ManualScheduler) Cancelled() []playback.TimerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]playback.TimerID(nil), s.cancelled...)
}

// Fired returns the total number of callbacks run.
func (s *ManualScheduler) Fired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}
