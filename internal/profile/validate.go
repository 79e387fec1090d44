package profile

import (
	"fmt"
	"strings"
)

// FieldError describes a single schema violation in a candidate record.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError aggregates every field violation found in one candidate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "profile: invalid candidate"
	}
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Error()
	}
	return "profile: invalid candidate: " + strings.Join(parts, "; ")
}

// stringFields maps each required scalar field to its setter on Profile.
var stringFields = []struct {
	key string
	set func(*Profile, string)
}{
	{"user_id", func(p *Profile, v string) { p.UserID = v }},
	{"name", func(p *Profile, v string) { p.Name = v }},
	{"email", func(p *Profile, v string) { p.Email = v }},
	{"role", func(p *Profile, v string) { p.Role = v }},
	{"department", func(p *Profile, v string) { p.Department = v }},
	{"status", func(p *Profile, v string) { p.Status = v }},
	{"joined_date", func(p *Profile, v string) { p.JoinedDate = v }},
	{"last_login", func(p *Profile, v string) { p.LastLogin = v }},
}

var listFields = []struct {
	key string
	set func(*Profile, []string)
}{
	{"skills", func(p *Profile, v []string) { p.Skills = v }},
	{"projects", func(p *Profile, v []string) { p.Projects = v }},
}

// Validate checks an untyped candidate (for example parsed JSON) against the
// profile schema and returns the typed record. Every required field must be
// present and of the declared shape; violations are accumulated rather than
// reported one at a time. Validate has no side effects and is only invoked at
// the producer boundary, never on data already trusted as a Profile.
func Validate(candidate map[string]any) (Profile, error) {
	var p Profile
	var verr ValidationError
	if candidate == nil {
		verr.Fields = append(verr.Fields, FieldError{Field: "candidate", Reason: "is nil"})
		return Profile{}, &verr
	}
	for _, f := range stringFields {
		raw, ok := candidate[f.key]
		if !ok {
			verr.Fields = append(verr.Fields, FieldError{Field: f.key, Reason: "missing required field"})
			continue
		}
		s, ok := raw.(string)
		if !ok {
			verr.Fields = append(verr.Fields, FieldError{Field: f.key, Reason: fmt.Sprintf("expected string, got %T", raw)})
			continue
		}
		f.set(&p, s)
	}
	for _, f := range listFields {
		raw, ok := candidate[f.key]
		if !ok {
			verr.Fields = append(verr.Fields, FieldError{Field: f.key, Reason: "missing required field"})
			continue
		}
		items, err := stringSlice(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, FieldError{Field: f.key, Reason: err.Error()})
			continue
		}
		f.set(&p, items)
	}
	if len(verr.Fields) > 0 {
		return Profile{}, &verr
	}
	return p, nil
}

// stringSlice coerces the value shapes JSON and YAML decoders produce for a
// list of strings. Element order is preserved.
func stringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected sequence of strings, element %d is %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected sequence of strings, got %T", raw)
	}
}
