package ui

import (
	"reflect"

	"github.com/atomicstack/tmux-portal/internal/history"
	"github.com/atomicstack/tmux-portal/internal/logging/events"
	"github.com/atomicstack/tmux-portal/internal/search"
	"github.com/atomicstack/tmux-portal/internal/theme"
	"github.com/atomicstack/tmux-portal/internal/tree"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects which key handler is active.
type Mode int

const (
	ModeWindow Mode = iota
	ModeSession
	ModeRename
	ModeSearch
	ModeQuickSearch
	ModeDeleteConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeWindow:
		return "window"
	case ModeSession:
		return "session"
	case ModeRename:
		return "rename"
	case ModeSearch:
		return "search"
	case ModeQuickSearch:
		return "quick-search"
	case ModeDeleteConfirm:
		return "delete-confirm"
	}
	return "unknown"
}

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// quickMatch ties a tree line index to its fuzzy score and highlight
// positions. The index points into the live tree, not a copy.
type quickMatch struct {
	line    int
	score   int
	indices []int
}

// Options carries the collaborators and display settings for NewModel.
type Options struct {
	Gateway           Gateway
	History           *history.Store
	Index             *search.Index
	Width             int
	Height            int
	ShowFooter        bool
	ShowWindowIDs     bool
	LineNumberPadding int
}

// Model implements the Bubble Tea model for the session/window tree.
type Model struct {
	gateway Gateway
	history *history.Store
	index   *search.Index

	tree tree.Model

	mode         Mode
	previousMode Mode
	errMsg       string

	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	showFooter        bool
	lineNumberPadding int

	renameInput  textinput.Model
	renameTarget tree.Line

	deleteTarget tree.Line
	deletePrompt string

	searchQuery     string
	searchResults   []search.Result
	searchSelection int

	quickQuery     string
	quickMatches   []quickMatch
	quickSelection int

	// autoPosition is consumed by the next refresh, which repositions the
	// selection on the attached session's active window.
	autoPosition bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state and performs the first tree load.
func NewModel(opts Options) *Model {
	m := &Model{
		gateway:           opts.Gateway,
		history:           opts.History,
		index:             opts.Index,
		showFooter:        opts.ShowFooter,
		lineNumberPadding: opts.LineNumberPadding,
		mode:              ModeWindow,
		previousMode:      ModeWindow,
		autoPosition:      true,
	}
	m.tree.ShowWindowIDs = opts.ShowWindowIDs
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.refresh()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	return nil
}

func (m *Model) setMode(to Mode) {
	if m.mode == to {
		return
	}
	events.App.Mode(m.mode.String(), to.String())
	m.mode = to
}

// refresh replaces the session list from the gateway and rebuilds the tree.
// The selection is repositioned on the active window when auto-positioning
// is armed, otherwise repaired in place.
func (m *Model) refresh() {
	sessions, err := m.gateway.Sessions()
	if err != nil {
		m.errMsg = err.Error()
		events.App.Error(err)
		return
	}
	m.tree.SetSessions(sessions)
	if m.autoPosition {
		m.autoPosition = false
		current, _ := m.gateway.CurrentSession()
		m.tree.PositionOnActive(current)
	}
	m.tree.EnsureValidSelection()
	windows := 0
	for _, s := range sessions {
		windows += len(s.Windows)
	}
	events.App.Refresh(len(sessions), windows)
}

func (m *Model) fail(err error) {
	if err == nil {
		return
	}
	m.errMsg = err.Error()
	events.App.Error(err)
}
