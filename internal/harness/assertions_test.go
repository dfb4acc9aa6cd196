package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/testutil"
	"github.com/roach88/teleprompt/internal/trace"
)

func sampleResult() *Result {
	r := NewResult()
	r.Trace = []trace.Event{
		{Seq: 1, Kind: trace.KindOpen, Position: -1, State: "paused", WPM: 120},
		{Seq: 2, Kind: trace.KindCommand, Command: "toggle", Position: 0, State: "playing", WPM: 120, ProgressBP: 5000},
		{Seq: 3, Kind: trace.KindTick, Position: 2, State: "playing", WPM: 120, ProgressBP: 10000},
		{Seq: 4, Kind: trace.KindCommand, Command: "jump", Arg: 0, Position: 0, State: "paused", WPM: 120, ProgressBP: 5000},
	}
	r.Final = playback.Snapshot{Position: 0, Rank: 0, Total: 2, State: playback.Paused, WPM: 120, IntervalMs: 500, Progress: 50}
	r.Timers = []testutil.ScheduleRecord{{ID: 1, Interval: 500 * time.Millisecond}}
	r.Cancelled = []playback.TimerID{1}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	assertions := []Assertion{
		{Type: AssertTraceContains, Command: "jump", Arg: intPtr(0)},
		{Type: AssertTraceContains, Kind: "tick"},
		{Type: AssertTraceOrder, Commands: []string{"open", "toggle", "tick", "jump"}},
		{Type: AssertTraceCount, Kind: "command", Count: 2},
		{Type: AssertTraceCount, Kind: "close", Count: 0},
		{Type: AssertFinalState, Expect: &StateExpect{Position: intPtr(0), State: "paused", ProgressBP: intPtr(5000), Timers: intPtr(0)}},
		{Type: AssertTimers, IntervalsMs: []int{500}, Cancelled: intPtr(1)},
	}

	assert.Empty(t, EvaluateAssertions(sampleResult(), assertions))
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{
			name:      "contains missing arg",
			assertion: Assertion{Type: AssertTraceContains, Command: "jump", Arg: intPtr(4)},
			want:      "event with command=jump arg=4",
		},
		{
			name:      "order reversed",
			assertion: Assertion{Type: AssertTraceOrder, Commands: []string{"tick", "toggle"}},
			want:      "no toggle after [tick]",
		},
		{
			name:      "count",
			assertion: Assertion{Type: AssertTraceCount, Kind: "tick", Count: 2},
			want:      "1 events",
		},
		{
			name:      "final state",
			assertion: Assertion{Type: AssertFinalState, Expect: &StateExpect{WPM: intPtr(60)}},
			want:      "wpm: expected 60, got 120",
		},
		{
			name:      "intervals",
			assertion: Assertion{Type: AssertTimers, IntervalsMs: []int{500, 1000}},
			want:      "intervals_ms [500]",
		},
		{
			name:      "cancelled",
			assertion: Assertion{Type: AssertTimers, Cancelled: intPtr(0)},
			want:      "1 cancelled timers",
		},
		{
			name:      "unknown type",
			assertion: Assertion{Type: "bogus"},
			want:      `unknown assertion type "bogus"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 events",
		Actual:   "1 events",
		Trace:    sampleResult().Trace,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "Expected: 2 events")
	assert.Contains(t, msg, "[3] tick")
	assert.Contains(t, msg, "[4] jump")
}

func TestTraceContains_ArgOnlyMatchesArgCommands(t *testing.T) {
	r := sampleResult()
	// toggle carries no argument, so arg 0 must not match it.
	errs := EvaluateAssertions(r, []Assertion{{Type: AssertTraceCount, Arg: intPtr(0), Kind: "command", Count: 1}})
	assert.Empty(t, errs)
}
