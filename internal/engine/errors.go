package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/trace"
)

// RuntimeError represents an error detected while running or replaying a
// session.
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// SessionID identifies the affected session.
	SessionID string

	// Seq is the trace position of the failure (replay only).
	Seq int64

	// Want and Got hold the diverging events (ErrCodeDiverged only).
	Want *trace.Event
	Got  *trace.Event
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownCommand indicates a command the player cannot apply.
	ErrCodeUnknownCommand RuntimeErrorCode = "UNKNOWN_COMMAND"

	// ErrCodeUnknownEvent indicates a trace event of unknown kind.
	ErrCodeUnknownEvent RuntimeErrorCode = "UNKNOWN_EVENT"

	// ErrCodeDiverged indicates a replayed state differs from the recording.
	ErrCodeDiverged RuntimeErrorCode = "DIVERGED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.SessionID != "" && e.Seq > 0 {
		return fmt.Sprintf("%s: %s (session=%s, seq=%d)", e.Code, e.Message, e.SessionID, e.Seq)
	}
	if e.SessionID != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.SessionID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDivergence returns true if err is a replay divergence.
// Uses errors.As to handle wrapped errors.
func IsDivergence(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDiverged
	}
	return false
}

// NewUnknownCommandError creates a RuntimeError for an unappliable command.
func NewUnknownCommandError(sessionID string, cmd playback.Command) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeUnknownCommand,
		Message:   fmt.Sprintf("unknown command %s", cmd),
		SessionID: sessionID,
	}
}

// NewDivergenceError creates a RuntimeError for a replay mismatch. got is
// nil when the replay produced no event for want.
func NewDivergenceError(sessionID string, want trace.Event, got *trace.Event) *RuntimeError {
	msg := fmt.Sprintf("replayed %s event differs from recording", want.Kind)
	if got == nil {
		msg = fmt.Sprintf("replay produced no event for recorded %s", want.Kind)
	}
	return &RuntimeError{
		Code:      ErrCodeDiverged,
		Message:   msg,
		SessionID: sessionID,
		Seq:       want.Seq,
		Want:      &want,
		Got:       got,
	}
}
