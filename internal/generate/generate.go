// Package generate abstracts the text/structured-data generation capability
// the pipeline stages call into. The pipeline treats a Generator as an
// opaque synchronous collaborator: it either returns well-formed output or
// an Error, and any failure is fatal to the run.
package generate

import (
	"context"
	"fmt"
)

// Mode selects the output shape a stage expects from the generator.
type Mode string

const (
	// ModeStructured asks for a JSON document matching the profile schema.
	ModeStructured Mode = "structured"
	// ModeText asks for free-form conversational text.
	ModeText Mode = "text"
)

// Request describes one generation call.
type Request struct {
	Mode Mode
	// Template names the rendering template for text mode.
	Template string
	// Payload carries the structured data the output is derived from.
	Payload any
	// Instruction is the thin natural-language framing handed to LLM-backed
	// generators. Deterministic generators ignore it.
	Instruction string
}

// Response is the generator's raw output, not yet trusted by any stage.
type Response struct {
	Text string
}

// Generator is the external generation collaborator invoked by each stage.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Error reports a failure of the generation capability itself. It always
// propagates to the caller as a run-level failure.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate: %s backend: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
