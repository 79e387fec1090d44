// Package pipeline composes the fetch and present stages into a strict
// sequence sharing one session state per run, and owns the run-level error
// policy: lookup misses and malformed producer output are absorbed into
// defined fallback content, generation failures always propagate.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davern/profilerelay/internal/generate"
	"github.com/davern/profilerelay/internal/logbook"
	"github.com/davern/profilerelay/internal/session"
	"github.com/davern/profilerelay/internal/stage"
)

// Request is one pipeline invocation: the caller's message plus an optional
// prior session snapshot for follow-up turns.
type Request struct {
	Message string
	Prior   session.Snapshot
}

// Result is what a completed run returns to the caller.
type Result struct {
	RunID    string
	Response string
	// Snapshot is the updated session state, for carrying into a follow-up
	// turn.
	Snapshot session.Snapshot
	// FetchErr holds an absorbed fetch-stage failure. The run still
	// completed; the present stage fell back to its data-absent behavior.
	FetchErr error
	// Transitions lists every state transition the run went through.
	Transitions []Transition
}

// Pipeline runs the two stages in order over a shared session state.
type Pipeline struct {
	fetch    stage.Stage
	present  stage.Stage
	log      *logbook.Logbook
	observer func(Transition)
	newRunID func() string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogbook attaches a run log.
func WithLogbook(log *logbook.Logbook) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithObserver registers a callback invoked on every state transition, in
// order. Used by tests to check sequencing and by the TUI status line.
func WithObserver(observer func(Transition)) Option {
	return func(p *Pipeline) {
		if observer != nil {
			p.observer = observer
		}
	}
}

// WithRunID injects a deterministic run id source.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newRunID = fn
		}
	}
}

// New wires a pipeline from its two stages.
func New(fetch, present stage.Stage, opts ...Option) (*Pipeline, error) {
	if fetch == nil || present == nil {
		return nil, fmt.Errorf("pipeline: both stages are required")
	}
	p := &Pipeline{
		fetch:    fetch,
		present:  present,
		observer: func(Transition) {},
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes fetch then present over one shared session state and returns
// the present stage's output. The stages never interleave: present does not
// begin until fetch has fully completed, and a run cancelled between stages
// never starts present at all.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	sess := session.FromSnapshot(req.Prior)
	followUp := sess.Has(session.KeyFetchedProfile)

	run := newRun(p.newRunID(), p.observer)
	result := Result{RunID: run.id}
	p.log.Info(run.id, "run started: %q", req.Message)

	run.to(StateFetchRunning, "")
	fetchResult, fetchErr := p.fetch.Run(ctx, sess, stage.Input{Message: req.Message})
	if fetchErr != nil {
		run.to(StateFetchDone, "failed")
		if fatal(fetchErr) {
			p.log.Error(run.id, "fetch stage: %v", fetchErr)
			result.Transitions = run.transitions
			return result, fmt.Errorf("pipeline: %w", fetchErr)
		}
		// Absorbed: surfaced on the result and in the log, while the present
		// stage falls back to its data-absent behavior.
		p.log.Warn(run.id, "fetch stage absorbed: %v", fetchErr)
		result.FetchErr = fetchErr
	} else {
		run.to(StateFetchDone, "success")
		p.log.Info(run.id, "fetch stage: %s", fetchResult.Message)
	}

	if err := ctx.Err(); err != nil {
		p.log.Error(run.id, "run cancelled between stages: %v", err)
		result.Transitions = run.transitions
		return result, fmt.Errorf("pipeline: cancelled between stages: %w", err)
	}

	run.to(StatePresentRunning, "")
	presentResult, err := p.present.Run(ctx, sess, stage.Input{Message: req.Message, FollowUp: followUp})
	if err != nil {
		p.log.Error(run.id, "present stage: %v", err)
		result.Transitions = run.transitions
		return result, fmt.Errorf("pipeline: %w", err)
	}
	run.to(StateCompleted, "")
	p.log.Info(run.id, "present stage: %s", presentResult.Message)

	result.Response = presentResult.Response
	result.Snapshot = sess.Snapshot()
	result.Transitions = run.transitions
	return result, nil
}

// fatal classifies a fetch-stage error. Malformed output is absorbed at the
// run level; a generation failure aborts the run before present starts.
func fatal(err error) bool {
	var merr *stage.MalformedOutputError
	return !errors.As(err, &merr)
}

// IsGenerationFailure reports whether a run error was caused by the
// generation capability itself.
func IsGenerationFailure(err error) bool {
	var gerr *generate.Error
	return errors.As(err, &gerr)
}
