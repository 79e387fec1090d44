package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davern/profilerelay/internal/directory"
	"github.com/davern/profilerelay/internal/generate"
	"github.com/davern/profilerelay/internal/pipeline"
	"github.com/davern/profilerelay/internal/stage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gen := generate.NewTemplated(nil)
	pipe, err := pipeline.New(stage.NewFetch(directory.Default(), gen), stage.NewPresent(gen))
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return NewApp(pipe)
}

func TestSubmitRunsPipelineAndCarriesSnapshot(t *testing.T) {
	app := newTestApp(t)
	app.input.SetValue("U003")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	msg := cmd()
	result, ok := msg.(runResultMsg)
	if !ok {
		t.Fatalf("unexpected message: %T", msg)
	}
	model, _ = app.Update(result)
	app = model.(*App)
	if app.running {
		t.Fatal("app still marked running after result")
	}
	if app.snapshot == nil {
		t.Fatal("snapshot not carried forward")
	}
	view := app.View()
	if !strings.Contains(view, "Carol Martinez") {
		t.Fatalf("view missing response:\n%s", view)
	}
}

func TestEmptySubmitIsIgnored(t *testing.T) {
	app := newTestApp(t)
	app.input.SetValue("   ")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	if cmd != nil {
		t.Fatal("blank input should not start a run")
	}
	if len(app.history) != 0 {
		t.Fatalf("history mutated: %+v", app.history)
	}
}

func TestEscQuits(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("expected quit message, got %T", msg)
	}
}
