package app

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tmux-portal/internal/history"
	"github.com/atomicstack/tmux-portal/internal/logging/events"
	"github.com/atomicstack/tmux-portal/internal/search"
	"github.com/atomicstack/tmux-portal/internal/tmux"
	"github.com/atomicstack/tmux-portal/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath        string
	Width             int
	Height            int
	ShowFooter        bool
	HistoryPath       string
	Patterns          []search.Pattern
	ShowWindowIDs     bool
	LineNumberPadding int
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	client := tmux.NewClient(socketPath)
	index := search.NewIndex(cfg.Patterns)
	index.Refresh()
	events.Search.Refresh(len(cfg.Patterns), index.Size())
	model := ui.NewModel(ui.Options{
		Gateway:           client,
		History:           history.Load(cfg.HistoryPath),
		Index:             index,
		Width:             cfg.Width,
		Height:            cfg.Height,
		ShowFooter:        cfg.ShowFooter,
		ShowWindowIDs:     cfg.ShowWindowIDs,
		LineNumberPadding: cfg.LineNumberPadding,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
