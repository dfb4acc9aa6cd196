package harness

import (
	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/testutil"
	"github.com/roach88/teleprompt/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every step expectation and assertion matched.
	Pass bool `json:"pass"`

	// Session is the recorded session header.
	Session trace.Session `json:"-"`

	// Trace contains every recorded event in seq order, open event first.
	Trace []trace.Event `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the session state after the last step.
	Final playback.Snapshot `json:"-"`

	// Timers lists every Schedule call in order.
	Timers []testutil.ScheduleRecord `json:"-"`

	// Cancelled lists every cancelled timer in order.
	Cancelled []playback.TimerID `json:"-"`

	// Live is the number of timers still pending after the last step.
	Live int `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Event{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
