package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/teleprompt/internal/playback"
)

// Scenario defines a playback scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Content is the text played by the session.
	Content string `yaml:"content"`

	// WPM is the initial pace. Nil means playback.DefaultWPM.
	WPM *int `yaml:"wpm,omitempty"`

	// Step is the pace_up/pace_down delta. Zero means playback.DefaultStep.
	Step int `yaml:"step,omitempty"`

	// Session is a fixed session id for deterministic traces.
	// If empty, defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	// Flow is the ordered list of steps.
	Flow []Step `yaml:"flow"`

	// Assertions validate the trace, final state, and timers.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step applies a command, advances simulated time, or both (command first).
type Step struct {
	// Command is a command name: toggle, start, pause, pace_up, pace_down,
	// set_pace, step_back, step_forward, reset, jump, close.
	Command string `yaml:"command,omitempty"`

	// Arg is the argument of jump (token index) and set_pace (wpm).
	Arg *int `yaml:"arg,omitempty"`

	// AdvanceMs moves the simulated clock forward, firing due timers.
	AdvanceMs int `yaml:"advance_ms,omitempty"`

	// Expect checks the state after this step.
	Expect *StateExpect `yaml:"expect,omitempty"`
}

// StateExpect is a partial state. Only the fields set are compared.
type StateExpect struct {
	Position   *int   `yaml:"position,omitempty"`
	State      string `yaml:"state,omitempty"`
	WPM        *int   `yaml:"wpm,omitempty"`
	ProgressBP *int   `yaml:"progress_bp,omitempty"`
	// Timers is the number of live timers.
	Timers *int `yaml:"timers,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event with kind/command/arg exists
	// - "trace_order": commands (or "tick") appear in order
	// - "trace_count": events with kind/command appear exactly Count times
	// - "final_state": state after the flow matches Expect
	// - "timers": schedule history matches IntervalsMs and Cancelled
	Type string `yaml:"type"`

	// Kind filters events by trace kind (open, command, tick, close).
	Kind string `yaml:"kind,omitempty"`

	// Command filters events by command name.
	Command string `yaml:"command,omitempty"`

	// Arg filters events by command argument.
	Arg *int `yaml:"arg,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Commands is the expected order (trace_order).
	Commands []string `yaml:"commands,omitempty"`

	// Expect is the expected final state (final_state).
	Expect *StateExpect `yaml:"expect,omitempty"`

	// IntervalsMs lists the interval of every timer ever scheduled (timers).
	IntervalsMs []int `yaml:"intervals_ms,omitempty"`

	// Cancelled is the expected number of cancellations (timers).
	Cancelled *int `yaml:"cancelled,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertTimers        = "timers"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scenarios in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Step < 0 {
		return fmt.Errorf("step must be positive")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(step Step) error {
	if step.Command == "" && step.AdvanceMs == 0 {
		return fmt.Errorf("command or advance_ms is required")
	}
	if step.AdvanceMs < 0 {
		return fmt.Errorf("advance_ms must be positive")
	}
	if step.Command == "" {
		if step.Arg != nil {
			return fmt.Errorf("arg without command")
		}
		return validateExpect(step.Expect)
	}

	kind, err := playback.ParseCommandKind(step.Command)
	if err != nil {
		return err
	}
	if kind.HasArg() && step.Arg == nil {
		return fmt.Errorf("command %s requires arg", step.Command)
	}
	if !kind.HasArg() && step.Arg != nil {
		return fmt.Errorf("command %s takes no arg", step.Command)
	}
	return validateExpect(step.Expect)
}

func validateExpect(e *StateExpect) error {
	if e == nil {
		return nil
	}
	switch e.State {
	case "", "paused", "playing":
	default:
		return fmt.Errorf("expect: unknown state %q", e.State)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" && a.Command == "" {
			return fmt.Errorf("assertions[%d]: kind or command is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Commands) == 0 {
			return fmt.Errorf("assertions[%d]: commands list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" && a.Command == "" {
			return fmt.Errorf("assertions[%d]: kind or command is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
		if err := validateExpect(a.Expect); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertTimers:
		if a.IntervalsMs == nil && a.Cancelled == nil {
			return fmt.Errorf("assertions[%d]: intervals_ms or cancelled is required for timers", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
