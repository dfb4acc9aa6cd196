package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/teleprompt/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update     bool   // regenerate golden files
	Filter     string // scenario filter (glob pattern)
	Properties bool   // also check playback properties
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios  []ScenarioResult        `json:"scenarios"`
	Passed     int                     `json:"passed"`
	Failed     int                     `json:"failed"`
	Total      int                     `json:"total"`
	Properties *harness.PropertyResult `json:"properties,omitempty"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run playback scenarios",
		Long: `Run YAML playback scenarios on a simulated clock.

Each scenario's expectations and assertions are checked, and its trace is
compared with golden/<name>.golden next to the scenario when that file
exists.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  teleprompt test ./scenarios
  teleprompt test ./scenarios --filter "pace-*"
  teleprompt test ./scenarios --update
  teleprompt test ./scenarios --properties --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().BoolVar(&opts.Properties, "properties", false, "also check playback properties on every scenario's content")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return commandError(formatter, NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir)))
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return commandError(formatter, WrapExitError(ExitCommandError, "failed to find scenarios", err))
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	corpus := append([]string(nil), harness.DefaultCorpus...)
	for _, scenarioFile := range scenarioFiles {
		scenResult, content := runScenario(scenarioFile, opts)
		result.Scenarios = append(result.Scenarios, scenResult)
		if content != nil {
			corpus = append(corpus, *content)
		}

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Properties {
		result.Properties = harness.CheckProperties(corpus)
	}

	text := func(w io.Writer) { writeTestText(w, result) }
	failed := result.Failed > 0 || (result.Properties != nil && result.Properties.Failed > 0)
	if failed {
		return formatter.Fail(ExitFailure, ErrCodeTestFailed, testFailureMessage(result), result, text)
	}
	return formatter.Emit(result, text)
}

func testFailureMessage(r TestResult) string {
	if r.Failed > 0 {
		return fmt.Sprintf("%d scenario(s) failed", r.Failed)
	}
	return fmt.Sprintf("%d property check(s) failed", r.Properties.Failed)
}

// findScenarioFiles finds all YAML scenario files in a directory, skipping
// the golden directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	paths, err := harness.FindScenarios(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, path := range paths {
		if filepath.Base(filepath.Dir(path)) == "golden" {
			continue
		}
		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		files = append(files, path)
	}
	return files, nil
}

// runScenario executes a single scenario. The scenario's content is
// returned for property checks when it loaded.
func runScenario(scenarioFile string, opts *TestOptions) (ScenarioResult, *string) {
	name := filepath.Base(scenarioFile)

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return ScenarioResult{
			Name:   name,
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}, nil
	}
	content := scenario.Content

	result, err := harness.Run(scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}, &content
	}

	scenResult := ScenarioResult{
		Name:   scenario.Name,
		Pass:   result.Pass,
		Errors: result.Errors,
	}

	goldenPath := goldenFilePath(scenarioFile)
	data, err := harness.MarshalSnapshot(scenario.Name, result)
	if err != nil {
		scenResult.Pass = false
		scenResult.Errors = append(scenResult.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return scenResult, &content
	}

	if opts.Update {
		if err := writeGoldenFile(goldenPath, data); err != nil {
			scenResult.Pass = false
			scenResult.Errors = append(scenResult.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return scenResult, &content
		}
		scenResult.Golden = "updated"
		return scenResult, &content
	}

	golden, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// No golden file - use assertion-based validation only
		scenResult.Golden = "missing"
	case err != nil:
		scenResult.Pass = false
		scenResult.Errors = append(scenResult.Errors, fmt.Sprintf("failed to read golden file: %v", err))
	case !bytes.Equal(bytes.TrimSpace(golden), data):
		scenResult.Pass = false
		scenResult.Errors = append(scenResult.Errors, "trace does not match golden file (run with --update to regenerate)")
	default:
		scenResult.Golden = "match"
	}

	return scenResult, &content
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// writeGoldenFile writes the current trace as the golden file.
func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func writeTestText(w io.Writer, r TestResult) {
	if r.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
	}
	for _, s := range r.Scenarios {
		if s.Pass {
			suffix := ""
			if s.Golden != "" {
				suffix = " (golden: " + s.Golden + ")"
			}
			fmt.Fprintf(w, "✓ %s%s\n", s.Name, suffix)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	if r.Properties != nil {
		fmt.Fprintf(w, "\nProperties: %d/%d checks passed on %d inputs\n",
			r.Properties.Passed, r.Properties.TotalChecks, r.Properties.TotalInputs)
		for _, f := range r.Properties.Failures {
			fmt.Fprintf(w, "  ✗ %s on %q: %s\n", f.Property, f.Input, f.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	if r.Failed == 0 && (r.Properties == nil || r.Properties.Failed == 0) {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
