package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/teleprompt/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// FileValidation holds the outcome for one scenario file.
type FileValidation struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateResult holds the overall validation result.
type ValidateResult struct {
	Files   []FileValidation `json:"files"`
	Valid   int              `json:"valid"`
	Invalid int              `json:"invalid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenario-file-or-dir>...",
		Short: "Validate scenario files",
		Long: `Check scenario files against the scenario schema without running them.

Directories are searched for .yaml and .yml files.

Exit codes:
  0 - All files are valid
  1 - One or more files are invalid
  2 - Command error (path not found)

Examples:
  teleprompt validate ./scenarios
  teleprompt validate hello.yaml pace.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return commandError(formatter, WrapExitError(ExitCommandError, fmt.Sprintf("path not found: %s", arg), err))
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := findScenarioFiles(arg, "")
		if err != nil {
			return commandError(formatter, WrapExitError(ExitCommandError, "failed to find scenarios", err))
		}
		paths = append(paths, found...)
	}

	result := ValidateResult{Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		fv := validateFile(path)
		if fv.Valid {
			result.Valid++
		} else {
			result.Invalid++
		}
		result.Files = append(result.Files, fv)
	}

	text := func(w io.Writer) { writeValidateText(w, result) }
	if result.Invalid > 0 {
		return formatter.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("%d invalid file(s)", result.Invalid), result, text)
	}
	return formatter.Emit(result, text)
}

func validateFile(path string) FileValidation {
	fv := FileValidation{Path: path}

	scenario, err := harness.ValidateFile(path)
	if err != nil {
		var schemaErr *harness.SchemaError
		if errors.As(err, &schemaErr) {
			fv.Errors = schemaErr.Details
		} else {
			fv.Errors = []string{err.Error()}
		}
		return fv
	}

	fv.Name = scenario.Name
	fv.Valid = true
	return fv
}

func writeValidateText(w io.Writer, r ValidateResult) {
	if len(r.Files) == 0 {
		fmt.Fprintln(w, "No scenario files found.")
		return
	}
	for _, f := range r.Files {
		if f.Valid {
			fmt.Fprintf(w, "✓ %s\n", f.Path)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", f.Path)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d valid, %d invalid\n", r.Valid, r.Invalid)
}
