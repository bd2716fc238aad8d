package tree

import "github.com/atomicstack/tmux-portal/internal/tmux"

// Model owns the session snapshot, its flattened lines, the selected line
// index, and the viewport scroll offset. The snapshot is replaced wholesale on
// every refresh; lines are regenerated, never edited in place.
type Model struct {
	Sessions      []tmux.Session
	Lines         []Line
	Selection     int
	ScrollOffset  int
	ShowWindowIDs bool
}

// SetSessions replaces the snapshot and rebuilds the lines.
func (m *Model) SetSessions(sessions []tmux.Session) {
	m.Sessions = sessions
	m.Rebuild()
}

// Rebuild regenerates the flattened lines from the current session list.
func (m *Model) Rebuild() {
	m.Lines = Build(m.Sessions, m.ShowWindowIDs)
}

// Current returns the selected line, or nil when the tree is empty or the
// selection is out of range.
func (m *Model) Current() *Line {
	if m.Selection < 0 || m.Selection >= len(m.Lines) {
		return nil
	}
	return &m.Lines[m.Selection]
}

// EnsureValidSelection repairs the selection after a rebuild: scan forward
// from the current index for a window line, then from the start; a tree with
// no windows at all settles on index 0.
func (m *Model) EnsureValidSelection() {
	if len(m.Lines) == 0 {
		m.Selection = 0
		return
	}
	if m.Selection < 0 {
		m.Selection = 0
	}
	for i := m.Selection; i < len(m.Lines); i++ {
		if m.Lines[i].Kind == KindWindow {
			m.Selection = i
			return
		}
	}
	limit := m.Selection
	if limit > len(m.Lines) {
		limit = len(m.Lines)
	}
	for i := 0; i < limit; i++ {
		if m.Lines[i].Kind == KindWindow {
			m.Selection = i
			return
		}
	}
	m.Selection = 0
}

// UpdateScroll clamps the scroll offset so the selection stays inside the
// viewport. One row of the given height is reserved for border chrome.
func (m *Model) UpdateScroll(viewportHeight int) {
	if len(m.Lines) == 0 || viewportHeight <= 0 {
		m.ScrollOffset = 0
		return
	}
	if viewportHeight > 1 {
		viewportHeight--
	}
	if m.Selection < m.ScrollOffset {
		m.ScrollOffset = m.Selection
	} else if m.Selection >= m.ScrollOffset+viewportHeight {
		m.ScrollOffset = m.Selection - (viewportHeight - 1)
		if m.ScrollOffset < 0 {
			m.ScrollOffset = 0
		}
	}
}

// PositionOnActive selects the active window of the given session, falling
// back to any active window, then to the session's own line.
func (m *Model) PositionOnActive(currentSession string) {
	if currentSession == "" {
		for i, line := range m.Lines {
			if line.Kind == KindWindow && line.Window.Active {
				m.Selection = i
				return
			}
		}
		return
	}
	for i, line := range m.Lines {
		if line.Kind == KindWindow && line.Session == currentSession && line.Window.Active {
			m.Selection = i
			return
		}
	}
	for i, line := range m.Lines {
		if line.Kind == KindSession && line.Session == currentSession {
			m.Selection = i
			return
		}
	}
}

// MoveDown advances the selection to the next window line, if any.
func (m *Model) MoveDown() {
	for i := m.Selection + 1; i < len(m.Lines); i++ {
		if m.Lines[i].Kind == KindWindow {
			m.Selection = i
			return
		}
	}
}

// MoveUp retreats the selection to the previous window line, if any.
func (m *Model) MoveUp() {
	for i := m.Selection - 1; i >= 0; i-- {
		if m.Lines[i].Kind == KindWindow {
			m.Selection = i
			return
		}
	}
}

// MoveToTop selects the first window line.
func (m *Model) MoveToTop() {
	for i := range m.Lines {
		if m.Lines[i].Kind == KindWindow {
			m.Selection = i
			return
		}
	}
}

// MoveToBottom selects the last window line.
func (m *Model) MoveToBottom() {
	for i := len(m.Lines) - 1; i >= 0; i-- {
		if m.Lines[i].Kind == KindWindow {
			m.Selection = i
			return
		}
	}
}

// PrevWindowInSession returns the index of the nearest window line before the
// selection that belongs to the same session, or -1.
func (m *Model) PrevWindowInSession() int {
	current := m.Current()
	if current == nil || current.Kind != KindWindow {
		return -1
	}
	for i := m.Selection - 1; i >= 0; i-- {
		if m.Lines[i].Kind == KindWindow && m.Lines[i].Session == current.Session {
			return i
		}
	}
	return -1
}

// NextWindowInSession returns the index of the nearest window line after the
// selection that belongs to the same session, or -1.
func (m *Model) NextWindowInSession() int {
	current := m.Current()
	if current == nil || current.Kind != KindWindow {
		return -1
	}
	for i := m.Selection + 1; i < len(m.Lines); i++ {
		if m.Lines[i].Kind == KindWindow && m.Lines[i].Session == current.Session {
			return i
		}
	}
	return -1
}

// NextSession moves the selection to the next session line, if any.
func (m *Model) NextSession() {
	for i := m.Selection + 1; i < len(m.Lines); i++ {
		if m.Lines[i].Kind == KindSession {
			m.Selection = i
			return
		}
	}
}

// PrevSession moves the selection to the previous session line, if any.
func (m *Model) PrevSession() {
	for i := m.Selection - 1; i >= 0; i-- {
		if m.Lines[i].Kind == KindSession {
			m.Selection = i
			return
		}
	}
}

// FirstSession selects the first session line.
func (m *Model) FirstSession() {
	for i := range m.Lines {
		if m.Lines[i].Kind == KindSession {
			m.Selection = i
			return
		}
	}
}

// LastSession selects the last session line.
func (m *Model) LastSession() {
	for i := len(m.Lines) - 1; i >= 0; i-- {
		if m.Lines[i].Kind == KindSession {
			m.Selection = i
			return
		}
	}
}

// FindWindowLine locates a window line by window id, returning -1 when the
// id no longer exists.
func (m *Model) FindWindowLine(windowID string) int {
	for i, line := range m.Lines {
		if line.Kind == KindWindow && line.Window.ID == windowID {
			return i
		}
	}
	return -1
}

// FindSessionLine locates a session line by name, returning -1 when absent.
func (m *Model) FindSessionLine(name string) int {
	for i, line := range m.Lines {
		if line.Kind == KindSession && line.Session == name {
			return i
		}
	}
	return -1
}

// SwapSessions reorders the session list in place. Session order is purely a
// presentation concern; nothing is sent to tmux.
func (m *Model) SwapSessions(a, b string) bool {
	ai, bi := -1, -1
	for i := range m.Sessions {
		switch m.Sessions[i].Name {
		case a:
			ai = i
		case b:
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return false
	}
	m.Sessions[ai], m.Sessions[bi] = m.Sessions[bi], m.Sessions[ai]
	m.Rebuild()
	return true
}

// WindowLineNumbers computes a line number for every window line relative to
// the selected window line (0 at the selection, negative above, positive
// below). The map is empty when the selection is not on a window.
func (m *Model) WindowLineNumbers() map[int]int {
	numbers := make(map[int]int)
	var windowIndices []int
	for i, line := range m.Lines {
		if line.Kind == KindWindow {
			windowIndices = append(windowIndices, i)
		}
	}
	selectedPos := -1
	for pos, idx := range windowIndices {
		if idx == m.Selection {
			selectedPos = pos
			break
		}
	}
	if selectedPos < 0 {
		return numbers
	}
	for pos, idx := range windowIndices {
		numbers[idx] = pos - selectedPos
	}
	return numbers
}
