package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/tmux-portal/internal/logging/events"
	"github.com/atomicstack/tmux-portal/internal/search"
	"github.com/atomicstack/tmux-portal/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
)

// activateSelection switches the multiplexer to the selected line and quits.
// Window activations are recorded in the jump history.
func (m *Model) activateSelection() tea.Cmd {
	line := m.tree.Current()
	if line == nil {
		return nil
	}
	switch line.Kind {
	case tree.KindWindow:
		w := line.Window
		events.Window.Switch(w.Session, w.ID)
		if err := m.gateway.SwitchToWindow(w.Session, w.ID); err != nil {
			m.fail(err)
			return nil
		}
		m.history.Touch(w.Session, w.ID)
		events.History.Touch(w.Session, w.ID)
		return tea.Quit
	case tree.KindSession:
		events.Session.Switch(line.Session)
		if err := m.gateway.SwitchToSession(line.Session); err != nil {
			m.fail(err)
			return nil
		}
		return tea.Quit
	}
	return nil
}

func (m *Model) jumpHistory(index int) tea.Cmd {
	entry, ok := m.history.At(index)
	if !ok {
		return nil
	}
	events.History.Jump(index, entry.Session, entry.WindowID)
	if err := m.gateway.SwitchToWindow(entry.Session, entry.WindowID); err != nil {
		m.fail(err)
		return nil
	}
	m.history.Touch(entry.Session, entry.WindowID)
	return tea.Quit
}

// moveWindowUp swaps the selected window with its predecessor in the same
// session. The swap happens on the multiplexer side first; only a confirmed
// swap is reflected locally, via a full refresh and a by-id relocation.
func (m *Model) moveWindowUp() {
	m.moveWindow(m.tree.PrevWindowInSession())
}

func (m *Model) moveWindowDown() {
	m.moveWindow(m.tree.NextWindowInSession())
}

func (m *Model) moveWindow(neighbor int) {
	current := m.tree.Current()
	if current == nil || current.Kind != tree.KindWindow || neighbor < 0 {
		return
	}
	moved := *current.Window
	other := m.tree.Lines[neighbor].Window
	events.Window.Swap(moved.ID, other.ID)
	if err := m.gateway.SwapWindows(moved.Session, moved.ID, other.ID); err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	if idx := m.tree.FindWindowLine(moved.ID); idx >= 0 {
		m.tree.Selection = idx
	}
}

// moveSessionUp reorders the session list locally. Session order is never
// pushed to the multiplexer.
func (m *Model) moveSessionUp() {
	m.moveSession(-1)
}

func (m *Model) moveSessionDown() {
	m.moveSession(1)
}

func (m *Model) moveSession(direction int) {
	current := m.tree.Current()
	if current == nil || current.Kind != tree.KindSession {
		return
	}
	name := current.Session
	neighbor := ""
	if direction < 0 {
		for i := m.tree.Selection - 1; i >= 0; i-- {
			if m.tree.Lines[i].Kind == tree.KindSession {
				neighbor = m.tree.Lines[i].Session
				break
			}
		}
	} else {
		for i := m.tree.Selection + 1; i < len(m.tree.Lines); i++ {
			if m.tree.Lines[i].Kind == tree.KindSession {
				neighbor = m.tree.Lines[i].Session
				break
			}
		}
	}
	if neighbor == "" {
		return
	}
	events.Session.Reorder(name, neighbor)
	if m.tree.SwapSessions(name, neighbor) {
		if idx := m.tree.FindSessionLine(name); idx >= 0 {
			m.tree.Selection = idx
		}
	}
}

// createWindow appends a window to the attached session, falling back to the
// session under the cursor when no client is attached.
func (m *Model) createWindow() {
	session, err := m.gateway.CurrentSession()
	if err != nil || session == "" {
		if line := m.tree.Current(); line != nil {
			session = line.Session
		}
	}
	if session == "" {
		m.errMsg = "No session selected"
		return
	}
	events.Window.Create(session)
	if err := m.gateway.NewWindow(session); err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	last := -1
	for i, line := range m.tree.Lines {
		if line.Kind == tree.KindWindow && line.Session == session {
			last = i
		}
	}
	if last >= 0 {
		m.tree.Selection = last
	}
}

func (m *Model) confirmRename() {
	name := strings.TrimSpace(m.renameInput.Value())
	if name == "" {
		return
	}
	target := m.renameTarget
	switch target.Kind {
	case tree.KindWindow:
		w := target.Window
		events.Window.Rename(fmt.Sprintf("%s:%s", w.Session, w.ID), name)
		if err := m.gateway.RenameWindow(w.Session, w.ID, name); err != nil {
			m.fail(err)
			return
		}
		m.refresh()
		if m.previousMode == ModeSession {
			m.tree.FirstSession()
		} else if idx := m.tree.FindWindowLine(w.ID); idx >= 0 {
			m.tree.Selection = idx
		}
	case tree.KindSession:
		events.Session.Rename(target.Session, name)
		if err := m.gateway.RenameSession(target.Session, name); err != nil {
			m.fail(err)
			return
		}
		m.refresh()
		if m.previousMode == ModeSession {
			if idx := m.tree.FindSessionLine(name); idx >= 0 {
				m.tree.Selection = idx
			}
		} else {
			m.tree.EnsureValidSelection()
		}
	}
}

func (m *Model) confirmDelete() {
	target := m.deleteTarget
	switch target.Kind {
	case tree.KindWindow:
		w := target.Window
		events.Window.Kill(fmt.Sprintf("%s:%s", w.Session, w.ID))
		if err := m.gateway.KillWindow(w.Session, w.ID); err != nil {
			m.fail(err)
			return
		}
		selected := m.tree.Selection
		m.refresh()
		if selected >= len(m.tree.Lines) {
			selected = len(m.tree.Lines) - 1
		}
		if selected < 0 {
			selected = 0
		}
		m.tree.Selection = selected
		m.tree.EnsureValidSelection()
	case tree.KindSession:
		events.Session.Kill(target.Session)
		if err := m.gateway.KillSession(target.Session); err != nil {
			m.fail(err)
			return
		}
		m.refresh()
		if m.previousMode == ModeSession {
			m.tree.FirstSession()
		} else {
			m.tree.EnsureValidSelection()
		}
	}
}

// openSearchResult activates a project search hit: switch to the window if
// it already exists, otherwise create the window (and the session when
// needed) rooted at the result's directory.
func (m *Model) openSearchResult(r search.Result) tea.Cmd {
	events.Search.Open(r.Session, r.Window, r.Path)
	for _, s := range m.tree.Sessions {
		if s.Name != r.Session {
			continue
		}
		for _, w := range s.Windows {
			if w.Name == r.Window {
				if err := m.gateway.SwitchToWindow(w.Session, w.ID); err != nil {
					m.fail(err)
					return nil
				}
				m.history.Touch(w.Session, w.ID)
				events.History.Touch(w.Session, w.ID)
				return tea.Quit
			}
		}
		if err := m.gateway.NewWindowInSession(r.Session, r.Window, r.Path); err != nil {
			m.fail(err)
			return nil
		}
		return tea.Quit
	}
	if err := m.gateway.NewSessionWithWindow(r.Session, r.Window, r.Path); err != nil {
		m.fail(err)
		return nil
	}
	return tea.Quit
}

// computeQuickMatches re-derives the quick search result list from the live
// tree. An empty query keeps every line in tree order; a query fuzzy-ranks
// the lines and drops non-matches.
func (m *Model) computeQuickMatches() {
	matches := make([]quickMatch, 0, len(m.tree.Lines))
	if m.quickQuery == "" {
		for i := range m.tree.Lines {
			matches = append(matches, quickMatch{line: i})
		}
	} else {
		for i := range m.tree.Lines {
			score, indices, ok := search.Match(quickSearchText(&m.tree.Lines[i]), m.quickQuery)
			if !ok {
				continue
			}
			matches = append(matches, quickMatch{line: i, score: score, indices: indices})
		}
		sort.SliceStable(matches, func(a, b int) bool {
			return matches[a].score > matches[b].score
		})
	}
	m.quickMatches = matches
	m.quickSelection = 0
	events.Search.QuickQuery(m.quickQuery, len(matches))
}

func quickSearchText(line *tree.Line) string {
	if line.Kind == tree.KindWindow {
		return line.Session + ":" + line.Window.Name
	}
	return line.Session
}
