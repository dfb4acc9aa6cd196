package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/trace"
)

// Engine is the single-writer event loop of one playback session.
//
// CRITICAL: All Player mutations happen in the goroutine that calls Run
// (or, without Run, the goroutine calling Apply). External callers use
// Enqueue to submit commands.
//
// Thread-safety model:
//   - Enqueue(), Stop(): safe from any goroutine
//   - Run(), Open(), Apply(), Close(), accessors: one goroutine only
//
// Listeners registered with WithListener run on that same goroutine.
type Engine struct {
	id       string
	content  string
	player   *playback.Player
	clock    *Clock
	queue    *eventQueue
	sched    playback.Scheduler
	ticker   *tickerScheduler // nil when an external scheduler is injected
	recorder Recorder
	onClose  func()

	// tickCtx is the context used to record timer fires.
	tickCtx context.Context
	opened  bool
	closed  bool

	playerOpts []playback.Option
	recorders  []Recorder
	idGen      IDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithPace sets the initial pace in words per minute (clamped).
func WithPace(wpm int) Option {
	return func(e *Engine) {
		e.playerOpts = append(e.playerOpts, playback.WithPace(wpm))
	}
}

// WithStep sets the pace delta of pace_up and pace_down.
func WithStep(step int) Option {
	return func(e *Engine) {
		e.playerOpts = append(e.playerOpts, playback.WithStep(step))
	}
}

// WithListener registers a state-change listener, typically the renderer.
func WithListener(l playback.Listener) Option {
	return func(e *Engine) {
		e.playerOpts = append(e.playerOpts, playback.WithListener(l))
	}
}

// WithScheduler replaces the wall-clock scheduler. Tests and the harness
// inject a manual scheduler so ticks happen only when time is advanced.
func WithScheduler(s playback.Scheduler) Option {
	return func(e *Engine) {
		e.sched = s
	}
}

// WithRecorder adds a trace recorder. May be given more than once.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorders = append(e.recorders, r)
		}
	}
}

// WithIDGenerator sets the session id source.
//
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.idGen = g
	}
}

// WithOnClose registers the host callback run once on teardown, for
// example restoring the terminal.
func WithOnClose(fn func()) Option {
	return func(e *Engine) {
		e.onClose = fn
	}
}

// WithClock sets the trace clock.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an Engine for content. No I/O happens until Open or Run.
func New(content string, opts ...Option) *Engine {
	e := &Engine{
		content: content,
		clock:   NewClock(),
		queue:   newEventQueue(),
		idGen:   UUIDv7Generator{},
		tickCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.sched == nil {
		e.ticker = newTickerScheduler(e.queue)
		e.sched = e.ticker
	}
	switch len(e.recorders) {
	case 0:
	case 1:
		e.recorder = e.recorders[0]
	default:
		e.recorder = multiRecorder(e.recorders)
	}

	e.id = e.idGen.Generate()
	e.player = playback.New(content, &tracingScheduler{engine: e, inner: e.sched}, e.playerOpts...)
	return e
}

// ID returns the session id.
func (e *Engine) ID() string {
	return e.id
}

// Player returns the session's Player for read-only use on the engine
// goroutine (rendering, hit testing).
func (e *Engine) Player() *playback.Player {
	return e.player
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() playback.Snapshot {
	return e.player.Snapshot()
}

// Closed reports whether the session was torn down.
func (e *Engine) Closed() bool {
	return e.closed
}

// Session describes the session for the trace.
func (e *Engine) Session() trace.Session {
	return trace.Session{
		ID:          e.id,
		Content:     e.content,
		ContentHash: trace.ContentHash(e.content),
		WPM:         e.player.WPM(),
		Step:        e.player.Step(),
	}
}

// Enqueue submits a command for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Enqueue(cmd playback.Command) bool {
	return e.queue.Enqueue(Event{Type: EventTypeCommand, Command: cmd})
}

// Open records the session header and the open event. Idempotent.
// A failed header write is logged like any other trace write; Open only
// fails when ctx is already done.
func (e *Engine) Open(ctx context.Context) error {
	if e.opened {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("open session %s: %w", e.id, err)
	}
	e.opened = true

	if e.recorder != nil {
		if err := e.recorder.WriteSession(ctx, e.Session()); err != nil {
			slog.Error("trace session write failed",
				"session", e.id,
				"error", err,
			)
		}
	}
	e.record(ctx, trace.KindOpen, playback.Command{})

	slog.Info("session opened",
		"session", e.id,
		"words", e.player.Index().Total(),
		"wpm", e.player.WPM(),
	)
	return nil
}

// Apply runs one command synchronously and records it. CommandClose tears
// the session down. After Close every call is a no-op.
func (e *Engine) Apply(ctx context.Context, cmd playback.Command) error {
	if e.closed {
		return nil
	}
	if err := e.Open(ctx); err != nil {
		return err
	}
	if cmd.Kind == playback.CommandClose {
		e.Close(ctx)
		return nil
	}
	if !e.player.Apply(cmd) {
		return NewUnknownCommandError(e.id, cmd)
	}

	slog.Debug("command applied",
		"session", e.id,
		"command", cmd.String(),
		"position", e.player.Position(),
		"state", e.player.State().String(),
	)
	e.record(ctx, trace.KindCommand, cmd)
	return nil
}

// Close tears the session down: the active timer is cancelled, every timer
// goroutine stops, the close event is recorded, the queue stops accepting
// commands, and the host callback runs. Idempotent.
func (e *Engine) Close(ctx context.Context) {
	if e.closed {
		return
	}
	e.closed = true

	e.player.Close()
	if e.ticker != nil {
		e.ticker.stopAll()
	}
	if e.opened {
		e.record(ctx, trace.KindClose, playback.Command{})
	}
	e.queue.Close()

	slog.Info("session closed",
		"session", e.id,
		"events", e.clock.Current(),
	)

	if e.onClose != nil {
		e.onClose()
	}
}

// Run opens the session and starts the single-writer event loop.
// Blocks until the session is closed, Stop() is called, or ctx is
// cancelled. Teardown always runs before Run returns.
//
// CRITICAL: Must be called from exactly ONE goroutine.
//
// ERROR HANDLING: On event processing failure, the error is logged with the
// event and processing continues. A bad key never ends a session.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting", "session", e.id)

	e.tickCtx = ctx
	defer e.Close(context.WithoutCancel(ctx))
	if err := e.Open(ctx); err != nil {
		return err
	}

	for {
		event, ok := e.queue.TryDequeue()
		if ok {
			if err := e.processEvent(ctx, event); err != nil {
				logEventError(e.id, event, err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled", "session", e.id)
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes with the queue, so this case
			// also fires once the session is closed.
			if e.queue.Len() == 0 && e.queue.Closed() {
				slog.Info("engine stopping: queue closed", "session", e.id)
				return nil
			}
		}
	}
}

// Stop closes the event queue, which will cause Run() to return and tear
// the session down.
func (e *Engine) Stop() {
	e.queue.Close()
}

// processEvent routes an event to the appropriate handler.
// CRITICAL: Called only from Run() goroutine - single-writer guarantee.
func (e *Engine) processEvent(ctx context.Context, event Event) error {
	switch event.Type {
	case EventTypeCommand:
		return e.Apply(ctx, event.Command)

	case EventTypeTick:
		if e.ticker == nil {
			return fmt.Errorf("tick event without a wall-clock scheduler")
		}
		if !e.ticker.fire(event.Timer) {
			slog.Debug("dropping stale tick", "session", e.id, "timer", event.Timer)
		}
		return nil

	default:
		return fmt.Errorf("unknown event type: %d", event.Type)
	}
}

// tick runs a timer callback and records the fire.
func (e *Engine) tick(fn func()) {
	if e.closed {
		return
	}
	fn()
	e.record(e.tickCtx, trace.KindTick, playback.Command{})
}

// record stamps the current state onto the trace.
func (e *Engine) record(ctx context.Context, kind trace.Kind, cmd playback.Command) {
	seq := e.clock.Next()
	if e.recorder == nil {
		return
	}
	ev := trace.NewEvent(e.id, seq, kind, cmd, e.player.Snapshot())
	if err := e.recorder.WriteEvent(ctx, ev); err != nil {
		slog.Error("trace write failed",
			"session", e.id,
			"seq", seq,
			"kind", string(kind),
			"error", err,
		)
	}
}

// logEventError logs a failed event with enough context to reproduce it.
func logEventError(sessionID string, event Event, err error) {
	switch event.Type {
	case EventTypeCommand:
		slog.Error("command failed",
			"session", sessionID,
			"command", event.Command.String(),
			"error", err,
		)
	case EventTypeTick:
		slog.Error("tick failed",
			"session", sessionID,
			"timer", event.Timer,
			"error", err,
		)
	default:
		slog.Error("event failed",
			"session", sessionID,
			"type", event.Type,
			"error", err,
		)
	}
}
