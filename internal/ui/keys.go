package ui

import (
	"fmt"

	"github.com/atomicstack/tmux-portal/internal/logging/events"
	"github.com/atomicstack/tmux-portal/internal/tree"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	// A stale error only survives until the next keypress.
	m.errMsg = ""
	switch m.mode {
	case ModeWindow:
		return m.handleWindowKey(key)
	case ModeSession:
		return m.handleSessionKey(key)
	case ModeRename:
		return m.handleRenameKey(key)
	case ModeSearch:
		return m.handleSearchKey(key)
	case ModeQuickSearch:
		return m.handleQuickSearchKey(key)
	case ModeDeleteConfirm:
		return m.handleDeleteConfirmKey(key)
	}
	return nil
}

func (m *Model) handleWindowKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "j", "down":
		m.tree.MoveDown()
	case "k", "up":
		m.tree.MoveUp()
	case "J", "shift+down":
		m.moveWindowDown()
	case "K", "shift+up":
		m.moveWindowUp()
	case "enter":
		return m.activateSelection()
	case "r", ",":
		m.startRename()
	case "x":
		m.startDeleteConfirm()
	case "R":
		m.autoPosition = true
		m.refresh()
	case "/":
		m.enterQuickSearch()
	case "F":
		m.enterSearch()
	case "S":
		m.enterSessionMode()
	case "C":
		m.createWindow()
	case "ctrl+g":
		m.tree.MoveToTop()
	case "G":
		m.tree.MoveToBottom()
	default:
		// '1' through '9' reach the nine most recent entries; '0' is the tenth.
		if s := key.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			return m.jumpHistory(int(s[0] - '1'))
		} else if s == "0" {
			return m.jumpHistory(9)
		}
	}
	return nil
}

func (m *Model) handleSessionKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "q", "esc":
		m.setMode(ModeWindow)
		m.tree.EnsureValidSelection()
	case "j", "down":
		m.tree.NextSession()
	case "k", "up":
		m.tree.PrevSession()
	case "g":
		m.tree.FirstSession()
	case "G":
		m.tree.LastSession()
	case "J":
		m.moveSessionDown()
	case "K":
		m.moveSessionUp()
	case "enter":
		line := m.tree.Current()
		if line == nil {
			return nil
		}
		events.Session.Switch(line.Session)
		if err := m.gateway.SwitchToSession(line.Session); err != nil {
			m.fail(err)
			return nil
		}
		return tea.Quit
	case "r", ",":
		m.startRename()
	case "x":
		m.startDeleteConfirm()
	case "R":
		m.refresh()
		m.tree.FirstSession()
	}
	return nil
}

func (m *Model) handleRenameKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		m.setMode(m.previousMode)
		return nil
	case tea.KeyEnter:
		m.confirmRename()
		m.setMode(m.previousMode)
		return nil
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(key)
	return cmd
}

func (m *Model) handleDeleteConfirmKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y", "Y":
		m.confirmDelete()
		m.setMode(m.previousMode)
	case "n", "N", "enter", "esc":
		m.setMode(m.previousMode)
	}
	return nil
}

func (m *Model) handleSearchKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		m.setMode(ModeWindow)
	case tea.KeyEnter:
		if len(m.searchResults) == 0 {
			m.setMode(ModeWindow)
			return nil
		}
		return m.openSearchResult(m.searchResults[m.searchSelection])
	case tea.KeyUp:
		if m.searchSelection > 0 {
			m.searchSelection--
		}
	case tea.KeyDown:
		if m.searchSelection < len(m.searchResults)-1 {
			m.searchSelection++
		}
	case tea.KeyBackspace:
		if m.searchQuery != "" {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:len(runes)-1])
			m.rerunSearch()
		}
	case tea.KeySpace:
		m.searchQuery += " "
		m.rerunSearch()
	case tea.KeyRunes:
		if !key.Alt && len(key.Runes) > 0 {
			m.searchQuery += string(key.Runes)
			m.rerunSearch()
		}
	}
	return nil
}

func (m *Model) handleQuickSearchKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		m.setMode(ModeWindow)
	case tea.KeyEnter:
		if len(m.quickMatches) == 0 {
			m.setMode(ModeWindow)
			return nil
		}
		m.tree.Selection = m.quickMatches[m.quickSelection].line
		m.setMode(ModeWindow)
		return m.activateSelection()
	case tea.KeyUp:
		if m.quickSelection > 0 {
			m.quickSelection--
		}
	case tea.KeyDown:
		if m.quickSelection < len(m.quickMatches)-1 {
			m.quickSelection++
		}
	case tea.KeyBackspace:
		if m.quickQuery != "" {
			runes := []rune(m.quickQuery)
			m.quickQuery = string(runes[:len(runes)-1])
			m.computeQuickMatches()
		}
	case tea.KeySpace:
		m.quickQuery += " "
		m.computeQuickMatches()
	case tea.KeyRunes:
		if !key.Alt && len(key.Runes) > 0 {
			m.quickQuery += string(key.Runes)
			m.computeQuickMatches()
		}
	}
	return nil
}

func (m *Model) startRename() {
	line := m.tree.Current()
	if line == nil {
		return
	}
	m.previousMode = m.mode
	m.renameTarget = *line
	ti := textinput.New()
	ti.CharLimit = 64
	if styles.Cursor != nil {
		ti.Cursor.Style = *styles.Cursor
	}
	switch line.Kind {
	case tree.KindWindow:
		ti.Placeholder = "window-name"
		ti.SetValue(line.Window.Name)
	case tree.KindSession:
		ti.Placeholder = "session-name"
		ti.SetValue(line.Session)
	}
	ti.CursorEnd()
	ti.Focus()
	m.renameInput = ti
	m.setMode(ModeRename)
}

func (m *Model) startDeleteConfirm() {
	line := m.tree.Current()
	if line == nil {
		return
	}
	m.previousMode = m.mode
	m.deleteTarget = *line
	switch line.Kind {
	case tree.KindWindow:
		m.deletePrompt = fmt.Sprintf("Delete window '%s'? (y/N)", line.Window.Name)
	case tree.KindSession:
		m.deletePrompt = fmt.Sprintf("Delete session '%s'? (y/N)", line.Session)
	}
	m.setMode(ModeDeleteConfirm)
}

func (m *Model) enterSessionMode() {
	m.tree.Rebuild()
	m.tree.FirstSession()
	m.setMode(ModeSession)
}

func (m *Model) enterSearch() {
	m.searchQuery = ""
	m.searchResults = m.index.Search("")
	m.searchSelection = 0
	m.setMode(ModeSearch)
}

func (m *Model) enterQuickSearch() {
	m.quickQuery = ""
	m.computeQuickMatches()
	m.setMode(ModeQuickSearch)
}

func (m *Model) rerunSearch() {
	m.searchResults = m.index.Search(m.searchQuery)
	m.searchSelection = 0
	events.Search.Query(m.searchQuery, len(m.searchResults))
}
