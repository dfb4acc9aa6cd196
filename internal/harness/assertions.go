package harness

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %-14s position=%d %s wpm=%d\n",
				event.Seq, label(event), event.Position, event.State, event.WPM)
		}
	}

	return buf.String()
}

// label names an event the way trace_order refers to it: the command name
// for command events, the kind otherwise ("open", "tick", "close").
func label(event trace.Event) string {
	if event.Kind == trace.KindCommand {
		return event.Command
	}
	return string(event.Kind)
}

// matches reports whether event satisfies the kind/command/arg filters.
func matches(event trace.Event, a Assertion) bool {
	if a.Kind != "" && string(event.Kind) != a.Kind {
		return false
	}
	if a.Command != "" && event.Command != a.Command {
		return false
	}
	if a.Arg != nil && (!event.HasArg() || event.Arg != *a.Arg) {
		return false
	}
	return true
}

func describeFilter(a Assertion) string {
	var parts []string
	if a.Kind != "" {
		parts = append(parts, "kind="+a.Kind)
	}
	if a.Command != "" {
		parts = append(parts, "command="+a.Command)
	}
	if a.Arg != nil {
		parts = append(parts, fmt.Sprintf("arg=%d", *a.Arg))
	}
	return strings.Join(parts, " ")
}

// assertTraceContains checks that at least one event matches the filters.
func assertTraceContains(events []trace.Event, assertion Assertion) error {
	for _, event := range events {
		if matches(event, assertion) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event with %s", describeFilter(assertion)),
		Actual:   "not found in trace",
		Trace:    events,
	}
}

// assertTraceOrder checks that the listed labels appear as a subsequence of
// the trace. Intervening events are allowed.
func assertTraceOrder(events []trace.Event, assertion Assertion) error {
	next := 0
	for _, event := range events {
		if next < len(assertion.Commands) && label(event) == assertion.Commands[next] {
			next++
		}
	}

	if next < len(assertion.Commands) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("events in order: %v", assertion.Commands),
			Actual:   fmt.Sprintf("no %s after %v", assertion.Commands[next], assertion.Commands[:next]),
			Trace:    events,
		}
	}

	return nil
}

// assertTraceCount checks that exactly Count events match the filters.
func assertTraceCount(events []trace.Event, assertion Assertion) error {
	count := 0
	for _, event := range events {
		if matches(event, assertion) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d events with %s", assertion.Count, describeFilter(assertion)),
			Actual:   fmt.Sprintf("%d events", count),
			Trace:    events,
		}
	}

	return nil
}

// assertFinalState compares the state after the last step.
func assertFinalState(result *Result, assertion Assertion) error {
	diffs := compareState(result.Final, result.Live, assertion.Expect)
	if len(diffs) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: "final state matches",
		Actual:   strings.Join(diffs, "; "),
		Trace:    result.Trace,
	}
}

// assertTimers checks the schedule history on the simulated clock.
func assertTimers(result *Result, assertion Assertion) error {
	if assertion.IntervalsMs != nil {
		actual := make([]int, len(result.Timers))
		for i, rec := range result.Timers {
			actual[i] = int(rec.Interval / time.Millisecond)
		}
		if !slices.Equal(actual, assertion.IntervalsMs) {
			return &AssertionError{
				Type:     AssertTimers,
				Expected: fmt.Sprintf("intervals_ms %v", assertion.IntervalsMs),
				Actual:   fmt.Sprintf("intervals_ms %v", actual),
			}
		}
	}

	if assertion.Cancelled != nil && len(result.Cancelled) != *assertion.Cancelled {
		return &AssertionError{
			Type:     AssertTimers,
			Expected: fmt.Sprintf("%d cancelled timers", *assertion.Cancelled),
			Actual:   fmt.Sprintf("%d cancelled timers", len(result.Cancelled)),
		}
	}

	return nil
}

// compareState returns one message per field of want that differs from the
// snapshot. Unset fields are not compared.
func compareState(s playback.Snapshot, live int, want *StateExpect) []string {
	if want == nil {
		return nil
	}
	var diffs []string
	if want.Position != nil && s.Position != *want.Position {
		diffs = append(diffs, fmt.Sprintf("position: expected %d, got %d", *want.Position, s.Position))
	}
	if want.State != "" && s.State.String() != want.State {
		diffs = append(diffs, fmt.Sprintf("state: expected %s, got %s", want.State, s.State))
	}
	if want.WPM != nil && s.WPM != *want.WPM {
		diffs = append(diffs, fmt.Sprintf("wpm: expected %d, got %d", *want.WPM, s.WPM))
	}
	if want.ProgressBP != nil {
		if bp := trace.BasisPoints(s.Progress); bp != *want.ProgressBP {
			diffs = append(diffs, fmt.Sprintf("progress_bp: expected %d, got %d", *want.ProgressBP, bp))
		}
	}
	if want.Timers != nil && live != *want.Timers {
		diffs = append(diffs, fmt.Sprintf("timers: expected %d live, got %d", *want.Timers, live))
	}
	return diffs
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		case AssertTimers:
			err = assertTimers(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
