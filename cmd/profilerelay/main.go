// cmd/profilerelay/main.go
//
// Entry point for the profile pipeline demo. Two modes:
//
//	profilerelay -q "Tell me about U003"   one-shot query, prints the response
//	profilerelay                           interactive chat TUI
//
// Both modes share the same wiring: directory -> fetch stage -> session
// state -> present stage, composed by the pipeline orchestrator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davern/profilerelay/internal/config"
	"github.com/davern/profilerelay/internal/directory"
	"github.com/davern/profilerelay/internal/generate"
	"github.com/davern/profilerelay/internal/logbook"
	"github.com/davern/profilerelay/internal/pipeline"
	"github.com/davern/profilerelay/internal/render"
	"github.com/davern/profilerelay/internal/stage"
	"github.com/davern/profilerelay/internal/tui"
)

func main() {
	query := flag.String("q", "", "one-shot query; omit to start the chat TUI")
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		fail("get working directory: %v", err)
	}
	pipe, err := wire(cwd)
	if err != nil {
		fail("%v", err)
	}

	if *query != "" {
		runOnce(pipe, *query)
		return
	}

	program := tea.NewProgram(tui.NewApp(pipe), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fail("run TUI: %v", err)
	}
}

// wire assembles the pipeline from configuration: directory table, presenter
// templates (built-ins plus any plugins), generator backend, both stages,
// and the run log.
func wire(projectDir string) (*pipeline.Pipeline, error) {
	cfg, err := config.New(projectDir)
	if err != nil {
		return nil, err
	}
	log, err := logbook.New(cfg.LogPath())
	if err != nil {
		return nil, err
	}
	table, err := directory.Load(cfg.UsersPath())
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.LoadPluginDir(cfg.TemplatesDir()); err != nil {
		return nil, err
	}
	var gen generate.Generator
	switch cfg.File.Generator.Backend {
	case config.BackendOpenRouter:
		gen = generate.NewOpenRouter(cfg.Token(), cfg.File.Generator.Model)
	default:
		gen = generate.NewTemplated(registry)
	}
	return pipeline.New(
		stage.NewFetch(table, gen),
		stage.NewPresent(gen),
		pipeline.WithLogbook(log),
	)
}

func runOnce(pipe *pipeline.Pipeline, query string) {
	result, err := pipe.Run(context.Background(), pipeline.Request{Message: query})
	if err != nil {
		fail("%v", err)
	}
	if result.FetchErr != nil {
		note := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
		fmt.Fprintln(os.Stderr, note.Render(fmt.Sprintf("fetch stage: %v", result.FetchErr)))
	}
	fmt.Println(result.Response)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "profilerelay: "+format+"\n", args...)
	os.Exit(1)
}
