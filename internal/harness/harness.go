package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/teleprompt/internal/engine"
	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs a fresh engine on a simulated clock with a fixed
// session id, so the trace depends only on the scenario file.
//
// Execution flow:
//  1. Build the engine with a ManualScheduler and an in-memory recorder
//  2. Open the session (records the open event)
//  3. For each step: apply the command, advance the clock, check expect
//  4. Evaluate assertions against the trace and the final state
//
// The session is not closed automatically; a scenario that wants a close
// event in its trace ends with a close step.
//
// Returns an error only for setup failures and commands the engine
// rejects. Expectation mismatches are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	sched := testutil.NewManualScheduler()
	rec := engine.NewMemoryRecorder()

	opts := []engine.Option{
		engine.WithScheduler(sched),
		engine.WithRecorder(rec),
		engine.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.Session)),
	}
	if scenario.WPM != nil {
		opts = append(opts, engine.WithPace(*scenario.WPM))
	}
	if scenario.Step > 0 {
		opts = append(opts, engine.WithStep(scenario.Step))
	}

	eng := engine.New(scenario.Content, opts...)
	if err := eng.Open(ctx); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		if err := runStep(ctx, eng, sched, step); err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
		if step.Expect == nil {
			continue
		}
		for _, msg := range compareState(eng.Snapshot(), len(sched.Active()), step.Expect) {
			result.AddError(fmt.Sprintf("flow[%d]: %s", i, msg))
		}
	}

	result.Session = rec.Session()
	result.Trace = rec.Events()
	result.Final = eng.Snapshot()
	result.Timers = sched.Scheduled()
	result.Cancelled = sched.Cancelled()
	result.Live = len(sched.Active())

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// runStep applies the step's command first, then advances the clock.
func runStep(ctx context.Context, eng *engine.Engine, sched *testutil.ManualScheduler, step Step) error {
	if step.Command != "" {
		cmd, err := step.command()
		if err != nil {
			return err
		}
		if err := eng.Apply(ctx, cmd); err != nil {
			return err
		}
	}
	if step.AdvanceMs > 0 {
		sched.Advance(time.Duration(step.AdvanceMs) * time.Millisecond)
	}
	return nil
}

func (s Step) command() (playback.Command, error) {
	kind, err := playback.ParseCommandKind(s.Command)
	if err != nil {
		return playback.Command{}, err
	}
	cmd := playback.Cmd(kind)
	if s.Arg != nil {
		cmd.Arg = *s.Arg
	}
	return cmd, nil
}
