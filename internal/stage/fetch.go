package stage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/davern/profilerelay/internal/directory"
	"github.com/davern/profilerelay/internal/generate"
	"github.com/davern/profilerelay/internal/profile"
	"github.com/davern/profilerelay/internal/session"
)

const fetchInstruction = "Return the given user record as a single JSON object matching the profile schema. Do not include any additional text."

// Fetch resolves the caller's query against the directory and publishes
// exactly one validated profile into session state under
// session.KeyFetchedProfile. It runs first and knows nothing about later
// stages.
type Fetch struct {
	table *directory.Table
	gen   generate.Generator
}

// NewFetch builds the fetch stage.
func NewFetch(table *directory.Table, gen generate.Generator) *Fetch {
	return &Fetch{table: table, gen: gen}
}

// Name implements Stage.
func (f *Fetch) Name() string { return "fetch" }

// Run implements Stage. A failed lookup is absorbed into the UNKNOWN
// sentinel profile; a validation failure returns *MalformedOutputError with
// no session write; a generator failure propagates as-is.
func (f *Fetch) Run(ctx context.Context, sess *session.State, input Input) (Result, error) {
	record, err := f.resolve(input.Message)
	note := fmt.Sprintf("resolved %s", record.UserID)
	if err != nil {
		if !errors.Is(err, directory.ErrNotFound) {
			return Result{Status: StatusFailed}, fmt.Errorf("stage fetch: %w", err)
		}
		record = profile.Unknown()
		note = "no directory match, using sentinel profile"
	}

	res, err := f.gen.Generate(ctx, generate.Request{
		Mode:        generate.ModeStructured,
		Instruction: fetchInstruction,
		Payload:     record,
	})
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("stage fetch: %w", err)
	}

	var candidate map[string]any
	if err := json.Unmarshal([]byte(res.Text), &candidate); err != nil {
		return Result{Status: StatusFailed}, &MalformedOutputError{Stage: f.Name(), Err: fmt.Errorf("output is not a JSON object: %w", err)}
	}
	validated, err := profile.Validate(candidate)
	if err != nil {
		return Result{Status: StatusFailed}, &MalformedOutputError{Stage: f.Name(), Err: err}
	}

	sess.Set(session.KeyFetchedProfile, validated)
	return Result{Status: StatusCompleted, Message: note}, nil
}

// resolve applies the documented match rule: the trimmed message as a whole
// first, then each whitespace token as an exact user id. Tokens are not
// fuzzy-matched, so prose around an id cannot resolve to the wrong record.
func (f *Fetch) resolve(message string) (profile.Profile, error) {
	record, err := f.table.Lookup(message)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, directory.ErrNotFound) {
		return profile.Profile{}, err
	}
	for _, token := range strings.Fields(message) {
		token = strings.Trim(token, ".,!?\"'")
		if record, err := f.table.LookupID(token); err == nil {
			return record, nil
		}
	}
	return profile.Profile{}, directory.ErrNotFound
}
