package playback

import (
	"github.com/roach88/teleprompt/internal/text"
)

// State is the play state of a session.
type State int

const (
	Paused State = iota
	Playing
)

// String returns "paused" or "playing".
func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "paused"
}

// Snapshot is the observable state of a Player after a change.
type Snapshot struct {
	Position   int // token index, or text.None
	Rank       int // word rank of Position, or text.None
	Total      int // number of words
	State      State
	WPM        int
	IntervalMs int64
	Progress   float64
}

// Listener receives a snapshot every time the observable state changes.
// Listeners run synchronously on the thread driving the Player.
type Listener func(Snapshot)

// Option configures a Player.
type Option func(*Player)

// WithPace sets the initial pace (clamped).
func WithPace(wpm int) Option {
	return func(p *Player) {
		p.pace.Set(wpm)
	}
}

// WithStep sets the delta used by PaceUp and PaceDown.
func WithStep(step int) Option {
	return func(p *Player) {
		if step > 0 {
			p.step = step
		}
	}
}

// WithListener registers a change listener.
func WithListener(l Listener) Option {
	return func(p *Player) {
		p.listeners = append(p.listeners, l)
	}
}

// Player is the playback state machine for one session.
type Player struct {
	tokens []text.Token
	index  *text.WordIndex
	pace   *Pace
	step   int
	sched  Scheduler

	timer    TimerID
	position int
	state    State
	closed   bool

	listeners []Listener
	last      Snapshot
}

// New tokenizes content and builds a paused, not-started Player.
func New(content string, sched Scheduler, opts ...Option) *Player {
	tokens := text.Tokenize(content)
	p := &Player{
		tokens:   tokens,
		index:    text.NewWordIndex(tokens),
		pace:     NewPace(DefaultWPM),
		step:     DefaultStep,
		sched:    sched,
		position: text.None,
		state:    Paused,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.last = p.Snapshot()
	return p
}

// Tokens returns the session's token sequence. Callers must not modify it.
func (p *Player) Tokens() []text.Token {
	return p.tokens
}

// Index returns the session's word index.
func (p *Player) Index() *text.WordIndex {
	return p.index
}

// Position returns the current token index, or text.None.
func (p *Player) Position() int {
	return p.position
}

// State returns the play state.
func (p *Player) State() State {
	return p.state
}

// WPM returns the current pace.
func (p *Player) WPM() int {
	return p.pace.WPM()
}

// Step returns the pace delta applied by PaceUp and PaceDown.
func (p *Player) Step() int {
	return p.step
}

// Progress returns the percentage of words reached.
func (p *Player) Progress() float64 {
	return Progress(p.index, p.position)
}

// Classify returns the visual class of tokenIndex.
func (p *Player) Classify(tokenIndex int) Class {
	return Classify(p.index, p.position, tokenIndex)
}

// Closed reports whether Close was called.
func (p *Player) Closed() bool {
	return p.closed
}

// ActiveTimer returns the pending timer id, or NoTimer.
func (p *Player) ActiveTimer() TimerID {
	return p.timer
}

// Snapshot returns the current observable state.
func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Position:   p.position,
		Rank:       p.index.PositionOf(p.position),
		Total:      p.index.Total(),
		State:      p.state,
		WPM:        p.pace.WPM(),
		IntervalMs: p.pace.IntervalMs(),
		Progress:   p.Progress(),
	}
}

// Start begins autoplay from the current position, or from the first word
// when the session has not started. Content without words stays paused.
func (p *Player) Start() {
	if p.closed || p.state == Playing {
		return
	}
	if p.position == text.None {
		p.position = p.index.First()
		if p.position == text.None {
			return
		}
	}
	p.state = Playing
	p.schedule()
	p.commit()
}

// Pause stops autoplay. Idempotent.
func (p *Player) Pause() {
	p.cancel()
	p.state = Paused
	p.commit()
}

// Toggle pauses when playing and starts otherwise.
func (p *Player) Toggle() {
	if p.state == Playing {
		p.Pause()
		return
	}
	p.Start()
}

// Tick advances to the next word. At the last word it pauses and leaves the
// position where it is. Ticks while paused are ignored.
func (p *Player) Tick() {
	if p.closed || p.state != Playing {
		return
	}
	next := p.index.Next(p.position)
	if next == text.None {
		p.Pause()
		return
	}
	p.position = next
	p.commit()
}

// Reset returns to the not-started state. Idempotent.
func (p *Player) Reset() {
	if p.closed {
		return
	}
	p.cancel()
	p.position = text.None
	p.state = Paused
	p.commit()
}

// JumpTo moves to a word token and pauses. Whitespace and out-of-range
// indices are ignored.
func (p *Player) JumpTo(tokenIndex int) {
	if p.closed || !p.index.IsWord(tokenIndex) {
		return
	}
	p.cancel()
	p.position = tokenIndex
	p.state = Paused
	p.commit()
}

// StepForward moves to the next word without touching the play state.
// No-op at the last word or before the session started.
func (p *Player) StepForward() {
	p.stepTo(p.index.Next(p.position))
}

// StepBackward moves to the previous word without touching the play state.
// No-op at the first word or before the session started.
func (p *Player) StepBackward() {
	p.stepTo(p.index.Previous(p.position))
}

func (p *Player) stepTo(target int) {
	if p.closed || target == text.None {
		return
	}
	p.position = target
	p.commit()
}

// SetPace clamps and applies a new pace. While playing, a changed pace
// cancels the pending timer and schedules a fresh one at the new interval;
// the wait for the next word restarts from zero.
func (p *Player) SetPace(wpm int) {
	if p.closed {
		return
	}
	before := p.pace.WPM()
	if p.pace.Set(wpm) == before {
		return
	}
	if p.state == Playing {
		p.cancel()
		p.schedule()
	}
	p.commit()
}

// PaceUp raises the pace by one step.
func (p *Player) PaceUp() {
	p.SetPace(p.pace.WPM() + p.step)
}

// PaceDown lowers the pace by one step.
func (p *Player) PaceDown() {
	p.SetPace(p.pace.WPM() - p.step)
}

// Close tears the session down: the pending timer is cancelled
// unconditionally and every later call is a no-op. Idempotent.
func (p *Player) Close() {
	if p.closed {
		return
	}
	p.cancel()
	p.state = Paused
	p.commit()
	p.closed = true
}

// Apply dispatches a host command. It reports false for commands the
// Player leaves to its host (CommandClose) and for unknown kinds.
func (p *Player) Apply(cmd Command) bool {
	switch cmd.Kind {
	case CommandTogglePlay:
		p.Toggle()
	case CommandStart:
		p.Start()
	case CommandPause:
		p.Pause()
	case CommandPaceUp:
		p.PaceUp()
	case CommandPaceDown:
		p.PaceDown()
	case CommandSetPace:
		p.SetPace(cmd.Arg)
	case CommandStepBack:
		p.StepBackward()
	case CommandStepForward:
		p.StepForward()
	case CommandReset:
		p.Reset()
	case CommandJump:
		p.JumpTo(cmd.Arg)
	default:
		return false
	}
	return true
}

func (p *Player) schedule() {
	p.timer = p.sched.Schedule(p.pace.Interval(), p.Tick)
}

func (p *Player) cancel() {
	if p.timer == NoTimer {
		return
	}
	p.sched.Cancel(p.timer)
	p.timer = NoTimer
}

// commit notifies listeners when the observable state changed.
func (p *Player) commit() {
	s := p.Snapshot()
	if s == p.last {
		return
	}
	p.last = s
	for _, l := range p.listeners {
		l(s)
	}
}
