// Package tui is the interactive chat front end for the profile pipeline.
// It follows The Elm Architecture via bubbletea: the model holds the chat
// transcript and the carried session snapshot, Update reacts to input and
// pipeline results, View renders the transcript.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davern/profilerelay/internal/pipeline"
	"github.com/davern/profilerelay/internal/session"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Bold(true)
	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))
)

type entry struct {
	speaker string
	text    string
	isError bool
}

// runResultMsg carries a finished pipeline run back into Update.
type runResultMsg struct {
	result pipeline.Result
	err    error
}

// App is the chat application model.
type App struct {
	pipe     *pipeline.Pipeline
	input    textinput.Model
	history  []entry
	snapshot session.Snapshot
	running  bool
	status   string
	width    int
}

// NewApp builds the chat model around a wired pipeline.
func NewApp(pipe *pipeline.Pipeline) *App {
	input := textinput.New()
	input.Placeholder = "Ask about a user, e.g. \"Tell me about U003\""
	input.Focus()
	input.CharLimit = 200
	return &App{
		pipe:   pipe,
		input:  input,
		status: "ready",
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			return a.submit()
		}
	case runResultMsg:
		a.running = false
		if msg.err != nil {
			a.history = append(a.history, entry{speaker: "system", text: msg.err.Error(), isError: true})
			a.status = "run failed"
			return a, nil
		}
		a.history = append(a.history, entry{speaker: "profilerelay", text: msg.result.Response})
		a.snapshot = msg.result.Snapshot
		a.status = fmt.Sprintf("run %s completed", shortID(msg.result.RunID))
		if msg.result.FetchErr != nil {
			a.status = fmt.Sprintf("run %s completed (fetch absorbed: %v)", shortID(msg.result.RunID), msg.result.FetchErr)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	message := strings.TrimSpace(a.input.Value())
	if message == "" || a.running {
		return a, nil
	}
	a.input.Reset()
	a.history = append(a.history, entry{speaker: "you", text: message})
	a.running = true
	a.status = "running pipeline..."
	prior := a.snapshot
	return a, func() tea.Msg {
		result, err := a.pipe.Run(context.Background(), pipeline.Request{Message: message, Prior: prior})
		return runResultMsg{result: result, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var sb strings.Builder
	sb.WriteString(userStyle.Render("profilerelay") + statusStyle.Render("  ·  fetch → present over shared session state") + "\n\n")
	for _, e := range a.history {
		switch {
		case e.isError:
			sb.WriteString(errorStyle.Render("! "+e.text) + "\n\n")
		case e.speaker == "you":
			sb.WriteString(userStyle.Render("you> ") + e.text + "\n\n")
		default:
			sb.WriteString(agentStyle.Render(e.text) + "\n\n")
		}
	}
	sb.WriteString(a.input.View() + "\n")
	sb.WriteString(statusStyle.Render(a.status+"  ·  esc to quit") + "\n")
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
