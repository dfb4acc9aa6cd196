package testutil

// FixedIDGenerator returns the same session id every time.
//
// Harness scenarios run with a fixed id so recorded traces are
// byte-identical across runs. An empty id becomes "test-session-default".
//
// Thread-safety: stateless, safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id. Implements engine.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
