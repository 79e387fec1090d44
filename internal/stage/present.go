package stage

import (
	"context"
	"fmt"

	"github.com/davern/profilerelay/internal/generate"
	"github.com/davern/profilerelay/internal/profile"
	"github.com/davern/profilerelay/internal/render"
	"github.com/davern/profilerelay/internal/session"
)

const presentInstruction = "Present the user profile in a friendly, conversational way with clear sections and bullet points, then offer to answer follow-up questions."

// Present reads the fetched profile from session state and renders the
// conversational response. It performs no retrieval and writes nothing.
type Present struct {
	gen generate.Generator
}

// NewPresent builds the present stage.
func NewPresent(gen generate.Generator) *Present {
	return &Present{gen: gen}
}

// Name implements Stage.
func (p *Present) Name() string { return "present" }

// Run implements Stage. When session state has no fetched profile the stage
// emits the holding message rather than fabricating content.
func (p *Present) Run(ctx context.Context, sess *session.State, input Input) (Result, error) {
	value, ok := sess.Get(session.KeyFetchedProfile)
	if !ok {
		return p.render(ctx, render.TemplateHolding, render.Data{}, "no fetched profile, holding")
	}
	rec, ok := value.(profile.Profile)
	if !ok {
		return Result{Status: StatusFailed}, fmt.Errorf("stage present: session %s holds %T, not a profile", session.KeyFetchedProfile, value)
	}
	if rec.IsUnknown() {
		return p.render(ctx, render.TemplateUnknown, render.Data{Profile: rec}, "sentinel profile, unknown response")
	}
	return p.render(ctx, render.TemplateSummary, render.Data{Profile: rec, FollowUp: input.FollowUp}, fmt.Sprintf("presented %s", rec.UserID))
}

func (p *Present) render(ctx context.Context, template string, data render.Data, note string) (Result, error) {
	res, err := p.gen.Generate(ctx, generate.Request{
		Mode:        generate.ModeText,
		Template:    template,
		Instruction: presentInstruction,
		Payload:     data,
	})
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("stage present: %w", err)
	}
	return Result{Status: StatusCompleted, Message: note, Response: res.Text}, nil
}
