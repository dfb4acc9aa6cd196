package harness

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.cue
var scenarioSchema string

// SchemaError lists every schema violation found in one file.
type SchemaError struct {
	Path    string
	Details []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if len(e.Details) == 1 {
		return fmt.Sprintf("%s: %s", e.Path, e.Details[0])
	}
	return fmt.Sprintf("%s: %d schema violations", e.Path, len(e.Details))
}

var (
	schemaMu   sync.Mutex
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		root := schemaCtx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
		if err := root.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaDef = root.LookupPath(cue.ParsePath("#Scenario"))
		schemaErr = schemaDef.Err()
	})
	return schemaCtx, schemaDef, schemaErr
}

// ValidateSchema checks a scenario document against the CUE schema.
// It catches what decoding alone cannot: unknown command names, values
// out of range, and malformed names.
func ValidateSchema(path string, data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Path: path, Details: []string{err.Error()}}
	}
	if doc == nil {
		return &SchemaError{Path: path, Details: []string{"empty document"}}
	}

	// The CUE context is not safe for concurrent use.
	schemaMu.Lock()
	defer schemaMu.Unlock()

	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return &SchemaError{Path: path, Details: []string{err.Error()}}
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		var details []string
		for _, e := range cueerrors.Errors(err) {
			details = append(details, e.Error())
		}
		return &SchemaError{Path: path, Details: details}
	}
	return nil
}

// ValidateFile reads a scenario file and runs both checks: the CUE schema
// and the strict decoder with its semantic rules.
func ValidateFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	if err := ValidateSchema(path, data); err != nil {
		return nil, err
	}
	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}
