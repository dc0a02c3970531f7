package bundler

import "weld/internal/astmodel"

// Printer renders an assembled bundle back to source text. Like
// discovery.Parser, this is an external collaborator's job (astmodel's
// own doc comment disclaims printing); production wiring supplies a
// real unparser, tests supply a stub that renders something deterministic
// enough to assert against.
type Printer interface {
	Print(*astmodel.Module) ([]byte, error)
}
