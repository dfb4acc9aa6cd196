// Package harness runs teleprompter scenarios against a simulated clock.
//
// A scenario is a YAML file naming some content, an initial pace, and a
// flow of steps. Each step applies a command, advances simulated time, or
// both, and may check the resulting state. After the flow, assertions are
// evaluated against the recorded trace, the final state, and the timer
// history.
//
//	name: hello-world
//	description: Two words play to the end and stop
//	content: Hello world
//	flow:
//	  - command: toggle
//	    expect: {position: 0, state: playing, progress_bp: 5000}
//	  - advance_ms: 500
//	    expect: {position: 2, progress_bp: 10000}
//	  - advance_ms: 500
//	    expect: {position: 2, state: paused, timers: 0}
//	assertions:
//	  - type: trace_count
//	    kind: tick
//	    count: 2
//
// Scenarios run on a real engine.Engine with a testutil.ManualScheduler,
// so timing is exact and every run of a scenario produces the same trace.
// RunWithGolden compares that trace against testdata/golden.
//
// Files are checked twice: yaml.v3 with KnownFields rejects typos while
// decoding, and ValidateSchema checks the document against a CUE schema
// (value ranges, command names, step shape) for the validate command.
package harness
