package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/teleprompt/internal/playback"
)

// tickerScheduler is the wall-clock playback.Scheduler used by Run.
//
// Each timer owns a goroutine driving a time.Ticker. A fire never calls
// the callback directly: it posts an EventTypeTick carrying the timer id
// to the engine queue, and the Run loop calls fire(id). A timer cancelled
// between the post and the dequeue is no longer in the table, so its fire
// is dropped.
type tickerScheduler struct {
	mu     sync.Mutex
	queue  *eventQueue
	next   playback.TimerID
	timers map[playback.TimerID]*tickerTimer
}

type tickerTimer struct {
	fn   func()
	stop chan struct{}
}

func newTickerScheduler(q *eventQueue) *tickerScheduler {
	return &tickerScheduler{
		queue:  q,
		timers: make(map[playback.TimerID]*tickerTimer),
	}
}

// Schedule implements playback.Scheduler.
func (s *tickerScheduler) Schedule(interval time.Duration, fn func()) playback.TimerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	t := &tickerTimer{fn: fn, stop: make(chan struct{})}
	s.timers[id] = t
	go s.run(id, interval, t.stop)
	return id
}

func (s *tickerScheduler) run(id playback.TimerID, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.queue.Enqueue(Event{Type: EventTypeTick, Timer: id}) {
				return
			}
		}
	}
}

// Cancel implements playback.Scheduler.
func (s *tickerScheduler) Cancel(id playback.TimerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return
	}
	close(t.stop)
	delete(s.timers, id)
}

// fire runs the callback of a live timer. It reports false for a stale id.
// Must be called from the Run goroutine.
func (s *tickerScheduler) fire(id playback.TimerID) bool {
	s.mu.Lock()
	t, ok := s.timers[id]
	s.mu.Unlock()

	if !ok {
		return false
	}
	t.fn()
	return true
}

// stopAll cancels every live timer.
func (s *tickerScheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		close(t.stop)
		delete(s.timers, id)
	}
}

// live returns the number of uncancelled timers.
func (s *tickerScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// stepScheduler never fires on its own. Replay drives it one recorded tick
// at a time.
type stepScheduler struct {
	next   playback.TimerID
	timers map[playback.TimerID]func()
}

func newStepScheduler() *stepScheduler {
	return &stepScheduler{timers: make(map[playback.TimerID]func())}
}

func (s *stepScheduler) Schedule(_ time.Duration, fn func()) playback.TimerID {
	s.next++
	s.timers[s.next] = fn
	return s.next
}

func (s *stepScheduler) Cancel(id playback.TimerID) {
	delete(s.timers, id)
}

// fire runs the oldest live timer. It reports false when none is live.
func (s *stepScheduler) fire() bool {
	if len(s.timers) == 0 {
		return false
	}
	ids := make([]playback.TimerID, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	s.timers[ids[0]]()
	return true
}

// tracingScheduler wraps the engine's scheduler so every timer fire is
// recorded as a tick event.
type tracingScheduler struct {
	engine *Engine
	inner  playback.Scheduler
}

func (s *tracingScheduler) Schedule(interval time.Duration, fn func()) playback.TimerID {
	return s.inner.Schedule(interval, func() { s.engine.tick(fn) })
}

func (s *tracingScheduler) Cancel(id playback.TimerID) {
	s.inner.Cancel(id)
}
