package trace

import (
	"math"

	"github.com/roach88/teleprompt/internal/playback"
)

// Kind distinguishes what caused an event.
type Kind string

const (
	// KindOpen is the first event of a session.
	KindOpen Kind = "open"
	// KindCommand is a host command applied to the session.
	KindCommand Kind = "command"
	// KindTick is a timer fire.
	KindTick Kind = "tick"
	// KindClose is session teardown.
	KindClose Kind = "close"
)

// Event is one entry of a session trace.
type Event struct {
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
	Kind      Kind   `json:"kind"`
	Command   string `json:"command,omitempty"`
	Arg       int    `json:"arg,omitempty"`
	Position  int    `json:"position"`
	State     string `json:"state"`
	WPM       int    `json:"wpm"`
	// ProgressBP is progress in basis points (100.00% == 10000).
	ProgressBP int `json:"progress_bp"`
}

// Session describes one recorded playback session.
type Session struct {
	ID          string
	Content     string
	ContentHash string
	WPM         int
	Step        int
}

// NewEvent builds an event from a snapshot. cmd is ignored unless kind is
// KindCommand.
func NewEvent(sessionID string, seq int64, kind Kind, cmd playback.Command, s playback.Snapshot) Event {
	ev := Event{
		SessionID:  sessionID,
		Seq:        seq,
		Kind:       kind,
		Position:   s.Position,
		State:      s.State.String(),
		WPM:        s.WPM,
		ProgressBP: BasisPoints(s.Progress),
	}
	if kind == KindCommand {
		ev.Command = cmd.Kind.String()
		if cmd.Kind.HasArg() {
			ev.Arg = cmd.Arg
		}
	}
	return ev
}

// BasisPoints converts a percentage to rounded basis points.
func BasisPoints(percent float64) int {
	return int(math.Round(percent * 100))
}

// ParseCommand rebuilds the playback command of a KindCommand event.
func (e Event) ParseCommand() (playback.Command, error) {
	kind, err := playback.ParseCommandKind(e.Command)
	if err != nil {
		return playback.Command{}, err
	}
	return playback.Command{Kind: kind, Arg: e.Arg}, nil
}

// HasArg reports whether the event's command carries an argument.
func (e Event) HasArg() bool {
	kind, err := playback.ParseCommandKind(e.Command)
	return err == nil && kind.HasArg()
}

// SameState reports whether two events describe the same session state.
func (e Event) SameState(o Event) bool {
	return e.Position == o.Position &&
		e.State == o.State &&
		e.WPM == o.WPM &&
		e.ProgressBP == o.ProgressBP
}

// Canonical returns the event as a generic map suitable for MarshalCanonical.
func (e Event) Canonical() map[string]any {
	m := map[string]any{
		"session_id":  e.SessionID,
		"seq":         e.Seq,
		"kind":        string(e.Kind),
		"position":    e.Position,
		"state":       e.State,
		"wpm":         e.WPM,
		"progress_bp": e.ProgressBP,
	}
	if e.Command != "" {
		m["command"] = e.Command
		if e.HasArg() {
			m["arg"] = e.Arg
		}
	}
	return m
}
