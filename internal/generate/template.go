package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davern/profilerelay/internal/render"
)

// Templated is the default generator backend. It is fully deterministic:
// structured requests marshal the payload to JSON, text requests execute a
// named presenter template. It stands in for an LLM wherever reproducible
// output matters, which includes every test in this repository.
type Templated struct {
	registry *render.Registry
}

// NewTemplated builds a template-backed generator. A nil registry gets the
// built-in templates.
func NewTemplated(registry *render.Registry) *Templated {
	if registry == nil {
		registry = render.NewRegistry()
	}
	return &Templated{registry: registry}
}

// Generate implements Generator.
func (g *Templated) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, &Error{Backend: "template", Err: err}
	}
	switch req.Mode {
	case ModeStructured:
		encoded, err := json.Marshal(req.Payload)
		if err != nil {
			return Response{}, &Error{Backend: "template", Err: err}
		}
		return Response{Text: string(encoded)}, nil
	case ModeText:
		data, ok := req.Payload.(render.Data)
		if !ok {
			return Response{}, &Error{Backend: "template", Err: fmt.Errorf("text payload must be render.Data, got %T", req.Payload)}
		}
		text, err := g.registry.Execute(req.Template, data)
		if err != nil {
			return Response{}, &Error{Backend: "template", Err: err}
		}
		return Response{Text: text}, nil
	default:
		return Response{}, &Error{Backend: "template", Err: fmt.Errorf("unsupported mode %q", req.Mode)}
	}
}
