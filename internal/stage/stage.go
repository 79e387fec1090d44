// Package stage implements the two pipeline workers. Stages never call each
// other: the fetch stage publishes into session state and the present stage
// reads from it, with ordering enforced by the orchestrator.
package stage

import (
	"context"
	"fmt"

	"github.com/davern/profilerelay/internal/session"
)

// Input is what the orchestrator hands a stage for one invocation.
type Input struct {
	// Message is the caller's latest message or query.
	Message string
	// FollowUp marks that the prior turn already carried a fetched profile,
	// so the present stage can adjust its greeting.
	FollowUp bool
}

// Status enumerates stage run outcomes.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result captures the outcome of a stage execution.
type Result struct {
	Status   Status
	Message  string
	Response string
}

// Stage is one unit of work in the sequential pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, sess *session.State, input Input) (Result, error)
}

// MalformedOutputError reports that producer output failed schema validation
// at the commit boundary. It is fatal to the fetch stage but absorbed at the
// run level: nothing is written to session state and the present stage falls
// back to its data-absent behavior.
type MalformedOutputError struct {
	Stage string
	Err   error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("stage %s: malformed output: %v", e.Stage, e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}
