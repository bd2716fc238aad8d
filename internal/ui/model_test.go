package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/tmux-portal/internal/history"
	"github.com/atomicstack/tmux-portal/internal/search"
	"github.com/atomicstack/tmux-portal/internal/tmux"
	"github.com/atomicstack/tmux-portal/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeGateway struct {
	sessions []tmux.Session
	current  string
	calls    []string
	failures map[string]error
	nextID   int
}

func (g *fakeGateway) record(format string, args ...interface{}) {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *fakeGateway) err(op string) error {
	if g.failures == nil {
		return nil
	}
	return g.failures[op]
}

func (g *fakeGateway) Sessions() ([]tmux.Session, error) {
	if err := g.err("sessions"); err != nil {
		return nil, err
	}
	out := make([]tmux.Session, len(g.sessions))
	for i, s := range g.sessions {
		windows := make([]tmux.Window, len(s.Windows))
		copy(windows, s.Windows)
		out[i] = tmux.Session{Name: s.Name, Windows: windows}
	}
	return out, nil
}

func (g *fakeGateway) CurrentSession() (string, error) {
	return g.current, g.err("current")
}

func (g *fakeGateway) SwitchToWindow(session, windowID string) error {
	g.record("switch-window %s:%s", session, windowID)
	return g.err("switch-window")
}

func (g *fakeGateway) SwitchToSession(session string) error {
	g.record("switch-session %s", session)
	return g.err("switch-session")
}

func (g *fakeGateway) RenameWindow(session, windowID, newName string) error {
	g.record("rename-window %s:%s %s", session, windowID, newName)
	if err := g.err("rename-window"); err != nil {
		return err
	}
	for si := range g.sessions {
		for wi := range g.sessions[si].Windows {
			if g.sessions[si].Windows[wi].ID == windowID {
				g.sessions[si].Windows[wi].Name = newName
			}
		}
	}
	return nil
}

func (g *fakeGateway) RenameSession(oldName, newName string) error {
	g.record("rename-session %s %s", oldName, newName)
	if err := g.err("rename-session"); err != nil {
		return err
	}
	for i := range g.sessions {
		if g.sessions[i].Name == oldName {
			g.sessions[i].Name = newName
			for wi := range g.sessions[i].Windows {
				g.sessions[i].Windows[wi].Session = newName
			}
		}
	}
	return nil
}

func (g *fakeGateway) KillWindow(session, windowID string) error {
	g.record("kill-window %s:%s", session, windowID)
	if err := g.err("kill-window"); err != nil {
		return err
	}
	for si := range g.sessions {
		windows := g.sessions[si].Windows[:0]
		for _, w := range g.sessions[si].Windows {
			if w.ID != windowID {
				windows = append(windows, w)
			}
		}
		g.sessions[si].Windows = windows
	}
	return nil
}

func (g *fakeGateway) KillSession(name string) error {
	g.record("kill-session %s", name)
	if err := g.err("kill-session"); err != nil {
		return err
	}
	sessions := g.sessions[:0]
	for _, s := range g.sessions {
		if s.Name != name {
			sessions = append(sessions, s)
		}
	}
	g.sessions = sessions
	return nil
}

func (g *fakeGateway) NewWindow(session string) error {
	g.record("new-window %s", session)
	if err := g.err("new-window"); err != nil {
		return err
	}
	g.nextID++
	for i := range g.sessions {
		if g.sessions[i].Name == session {
			g.sessions[i].Windows = append(g.sessions[i].Windows, tmux.Window{
				ID:      fmt.Sprintf("@n%d", g.nextID),
				Name:    "zsh",
				Session: session,
			})
		}
	}
	return nil
}

func (g *fakeGateway) SwapWindows(session, first, second string) error {
	g.record("swap-window %s %s %s", session, first, second)
	if err := g.err("swap-window"); err != nil {
		return err
	}
	for si := range g.sessions {
		if g.sessions[si].Name != session {
			continue
		}
		windows := g.sessions[si].Windows
		fi, se := -1, -1
		for i, w := range windows {
			switch w.ID {
			case first:
				fi = i
			case second:
				se = i
			}
		}
		if fi >= 0 && se >= 0 {
			windows[fi], windows[se] = windows[se], windows[fi]
		}
	}
	return nil
}

func (g *fakeGateway) NewWindowInSession(session, window, dir string) error {
	g.record("new-window-in %s %s %s", session, window, dir)
	return g.err("new-window-in")
}

func (g *fakeGateway) NewSessionWithWindow(session, window, dir string) error {
	g.record("new-session %s %s %s", session, window, dir)
	return g.err("new-session")
}

func sampleGateway() *fakeGateway {
	return &fakeGateway{
		sessions: []tmux.Session{
			{Name: "work", Windows: []tmux.Window{
				{ID: "@1", Name: "editor", Session: "work", Active: true},
				{ID: "@2", Name: "server", Session: "work"},
			}},
			{Name: "chat", Windows: []tmux.Window{
				{ID: "@3", Name: "irc", Session: "chat", Active: true},
			}},
		},
		current: "work",
	}
}

func newTestModel(t *testing.T, g Gateway) *Model {
	t.Helper()
	return NewModel(Options{
		Gateway:           g,
		History:           history.Load(filepath.Join(t.TempDir(), "history.json")),
		Index:             search.NewIndex(nil),
		Width:             80,
		Height:            24,
		ShowWindowIDs:     false,
		LineNumberPadding: 5,
	})
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = m.handleKeyMsg(keyMsg(k))
	}
	return cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStartupAutoPositionsOnActiveWindow(t *testing.T) {
	m := newTestModel(t, sampleGateway())
	line := m.tree.Current()
	if line == nil || line.Kind != tree.KindWindow {
		t.Fatalf("expected selection on a window line, got %#v", line)
	}
	if line.Window.ID != "@1" {
		t.Fatalf("expected active window of attached session, got %s", line.Window.ID)
	}
}

func TestStartupRepairsSelectionWhenAttachedSessionHasNoWindows(t *testing.T) {
	g := &fakeGateway{
		sessions: []tmux.Session{
			{Name: "empty"},
			{Name: "work", Windows: []tmux.Window{
				{ID: "@1", Name: "editor", Session: "work", Active: true},
			}},
		},
		current: "empty",
	}
	m := newTestModel(t, g)
	line := m.tree.Current()
	if line == nil || line.Kind != tree.KindWindow {
		t.Fatalf("expected selection repaired onto a window line, got %#v", line)
	}
	if line.Window.ID != "@1" {
		t.Fatalf("expected the only window selected, got %s", line.Window.ID)
	}
}

func TestWindowNavigationSkipsSessionLines(t *testing.T) {
	m := newTestModel(t, sampleGateway())
	press(m, "ctrl+g")
	ids := []string{}
	for i := 0; i < 3; i++ {
		ids = append(ids, m.tree.Current().Window.ID)
		press(m, "j")
	}
	if ids[0] != "@1" || ids[1] != "@2" || ids[2] != "@3" {
		t.Fatalf("unexpected traversal %v", ids)
	}
	// Bottom of the tree: j stays put.
	if m.tree.Current().Window.ID != "@3" {
		t.Fatalf("expected selection pinned to last window, got %s", m.tree.Current().Window.ID)
	}
	press(m, "k", "k")
	if m.tree.Current().Window.ID != "@1" {
		t.Fatalf("expected selection back on first window, got %s", m.tree.Current().Window.ID)
	}
}

func TestEnterActivatesWindowAndRecordsHistory(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	cmd := press(m, "enter")
	if !isQuit(cmd) {
		t.Fatal("expected activation to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-window work:@1" {
		t.Fatalf("unexpected gateway calls %v", g.calls)
	}
	entry, ok := m.history.At(0)
	if !ok || entry.Session != "work" || entry.WindowID != "@1" {
		t.Fatalf("expected history entry, got %#v", entry)
	}
}

func TestDigitKeyJumpsToHistory(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	m.history.Touch("chat", "@3")
	m.history.Touch("work", "@2")
	// '1' addresses the most recent entry.
	cmd := press(m, "1")
	if !isQuit(cmd) {
		t.Fatal("expected history jump to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-window work:@2" {
		t.Fatalf("unexpected gateway calls %v", g.calls)
	}
	// '2' addresses the second entry.
	cmd = press(m, "2")
	if !isQuit(cmd) {
		t.Fatal("expected history jump to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-window chat:@3" {
		t.Fatalf("unexpected gateway calls %v", g.calls)
	}
	// The jumped-to entry moves to the front.
	if entry, _ := m.history.At(0); entry.WindowID != "@3" {
		t.Fatalf("expected jumped entry at front, got %#v", entry)
	}
}

func TestDigitKeyZeroReachesTenthEntry(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	for i := 1; i <= 10; i++ {
		m.history.Touch("work", fmt.Sprintf("@%d", i))
	}
	cmd := press(m, "0")
	if !isQuit(cmd) {
		t.Fatal("expected history jump to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-window work:@1" {
		t.Fatalf("expected the oldest entry, got %v", g.calls)
	}
}

func TestDigitKeyWithoutHistoryDoesNothing(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	if cmd := press(m, "7"); cmd != nil {
		t.Fatal("expected no command for empty history slot")
	}
	if len(g.calls) != 0 {
		t.Fatalf("expected no gateway calls, got %v", g.calls)
	}
}

func TestQuickSearchMatchesSingleWindow(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "/")
	if m.mode != ModeQuickSearch {
		t.Fatalf("expected quick search mode, got %s", m.mode)
	}
	if len(m.quickMatches) != len(m.tree.Lines) {
		t.Fatalf("empty query should list every line, got %d of %d", len(m.quickMatches), len(m.tree.Lines))
	}
	press(m, "i", "r", "c")
	if len(m.quickMatches) != 1 {
		t.Fatalf("expected exactly one match for irc, got %d", len(m.quickMatches))
	}
	if got := quickSearchText(&m.tree.Lines[m.quickMatches[0].line]); got != "chat:irc" {
		t.Fatalf("unexpected match %q", got)
	}
	cmd := press(m, "enter")
	if !isQuit(cmd) {
		t.Fatal("expected quick jump to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-window chat:@3" {
		t.Fatalf("unexpected gateway calls %v", g.calls)
	}
}

func TestQuickSearchNoMatchReturnsToWindowMode(t *testing.T) {
	m := newTestModel(t, sampleGateway())
	before := m.tree.Selection
	press(m, "/", "z", "z", "z")
	if len(m.quickMatches) != 0 {
		t.Fatalf("expected no matches, got %d", len(m.quickMatches))
	}
	if cmd := press(m, "enter"); cmd != nil {
		t.Fatal("expected no activation without matches")
	}
	if m.mode != ModeWindow {
		t.Fatalf("expected window mode, got %s", m.mode)
	}
	if m.tree.Selection != before {
		t.Fatal("selection must not move on an empty result set")
	}
}

func TestRenameWindowFlow(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "r")
	if m.mode != ModeRename {
		t.Fatalf("expected rename mode, got %s", m.mode)
	}
	if m.renameInput.Value() != "editor" {
		t.Fatalf("rename input should be seeded, got %q", m.renameInput.Value())
	}
	press(m, "2")
	cmd := press(m, "enter")
	if cmd != nil && isQuit(cmd) {
		t.Fatal("rename must not quit")
	}
	if m.mode != ModeWindow {
		t.Fatalf("expected return to window mode, got %s", m.mode)
	}
	found := false
	for _, call := range g.calls {
		if call == "rename-window work:@1 editor2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rename call, got %v", g.calls)
	}
	// Selection follows the renamed window by id.
	if m.tree.Current().Window.ID != "@1" {
		t.Fatalf("selection should stay on @1, got %s", m.tree.Current().Window.ID)
	}
}

func TestRenameEscReturnsToInvokingMode(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "S", "r")
	if m.mode != ModeRename {
		t.Fatalf("expected rename mode, got %s", m.mode)
	}
	press(m, "esc")
	if m.mode != ModeSession {
		t.Fatalf("esc should return to session mode, got %s", m.mode)
	}
	if len(g.calls) != 0 {
		t.Fatalf("expected no gateway calls, got %v", g.calls)
	}
}

func TestDeleteConfirmCancelAndConfirm(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "x")
	if m.mode != ModeDeleteConfirm {
		t.Fatalf("expected delete confirm mode, got %s", m.mode)
	}
	if m.deletePrompt != "Delete window 'editor'? (y/N)" {
		t.Fatalf("unexpected prompt %q", m.deletePrompt)
	}
	press(m, "n")
	if m.mode != ModeWindow || len(g.calls) != 0 {
		t.Fatalf("cancel must not mutate, mode=%s calls=%v", m.mode, g.calls)
	}

	press(m, "x", "y")
	if g.calls[0] != "kill-window work:@1" {
		t.Fatalf("unexpected calls %v", g.calls)
	}
	if line := m.tree.Current(); line == nil || line.Kind != tree.KindWindow {
		t.Fatal("selection should repair onto a window after delete")
	}
}

func TestDeleteOnlyWindowKeepsSessionLine(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	// Select chat's only window, then delete it.
	press(m, "G", "x", "y")
	found := false
	for _, line := range m.tree.Lines {
		if line.Kind == tree.KindSession && line.Session == "chat" {
			found = true
		}
	}
	if !found {
		t.Fatal("session with zero windows must still have its line")
	}
	if line := m.tree.Current(); line == nil || line.Kind != tree.KindWindow || line.Session != "work" {
		t.Fatalf("selection should repair to another session's window, got %#v", line)
	}
}

func TestMoveWindowStaysInSession(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	// @1 is first in its session; moving up has no neighbour.
	press(m, "K")
	if len(g.calls) != 0 {
		t.Fatalf("expected no swap at session boundary, got %v", g.calls)
	}
	press(m, "J")
	if g.calls[0] != "swap-window work @1 @2" {
		t.Fatalf("unexpected calls %v", g.calls)
	}
	if m.tree.Current().Window.ID != "@1" {
		t.Fatalf("selection should follow the moved window, got %s", m.tree.Current().Window.ID)
	}
	// @1 is now last in work; moving down must not cross into chat.
	g.calls = nil
	press(m, "J")
	if len(g.calls) != 0 {
		t.Fatalf("expected no swap across sessions, got %v", g.calls)
	}
}

func TestSessionModeNavigationAndReorder(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "S")
	if m.mode != ModeSession {
		t.Fatalf("expected session mode, got %s", m.mode)
	}
	if line := m.tree.Current(); line.Kind != tree.KindSession || line.Session != "work" {
		t.Fatalf("expected first session selected, got %#v", line)
	}
	press(m, "J")
	if len(g.calls) != 0 {
		t.Fatalf("session reorder is local only, got %v", g.calls)
	}
	if m.tree.Sessions[0].Name != "chat" {
		t.Fatalf("expected chat first after reorder, got %s", m.tree.Sessions[0].Name)
	}
	if line := m.tree.Current(); line.Session != "work" {
		t.Fatalf("selection should follow the moved session, got %q", line.Session)
	}
	cmd := press(m, "enter")
	if !isQuit(cmd) {
		t.Fatal("expected session switch to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-session work" {
		t.Fatalf("unexpected calls %v", g.calls)
	}
}

func TestSessionModeEscRepairsSelection(t *testing.T) {
	m := newTestModel(t, sampleGateway())
	press(m, "S", "esc")
	if m.mode != ModeWindow {
		t.Fatalf("expected window mode, got %s", m.mode)
	}
	if line := m.tree.Current(); line == nil || line.Kind != tree.KindWindow {
		t.Fatalf("expected selection on a window, got %#v", line)
	}
}

func TestGatewayFailureSurfacesAndClears(t *testing.T) {
	g := sampleGateway()
	g.failures = map[string]error{"switch-window": fmt.Errorf("no current client")}
	m := newTestModel(t, g)
	selected := m.tree.Selection
	if cmd := press(m, "enter"); cmd != nil {
		t.Fatal("failed activation must not quit")
	}
	if m.errMsg != "no current client" {
		t.Fatalf("expected surfaced error, got %q", m.errMsg)
	}
	if m.mode != ModeWindow || m.tree.Selection != selected {
		t.Fatal("failure must leave mode and selection unchanged")
	}
	press(m, "j")
	if m.errMsg != "" {
		t.Fatalf("error should clear on next keypress, got %q", m.errMsg)
	}
}

func TestCreateWindowSelectsNewWindow(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "C")
	if g.calls[0] != "new-window work" {
		t.Fatalf("unexpected calls %v", g.calls)
	}
	line := m.tree.Current()
	if line == nil || line.Kind != tree.KindWindow || line.Session != "work" {
		t.Fatalf("expected selection in work, got %#v", line)
	}
	if line.Window.ID != "@n1" {
		t.Fatalf("expected the new window selected, got %s", line.Window.ID)
	}
}

func TestProjectSearchActivation(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"work/editor", "music/player"} {
		if err := os.MkdirAll(filepath.Join(root, p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	index := search.NewIndex([]search.Pattern{{Name: "p", Roots: []string{root}, Template: "{session}/{window}"}})
	index.Refresh()

	g := sampleGateway()
	m := NewModel(Options{
		Gateway: g,
		History: history.Load(filepath.Join(t.TempDir(), "history.json")),
		Index:   index,
		Width:   80,
		Height:  24,
	})

	// Existing session and window: straight switch.
	press(m, "F")
	if m.mode != ModeSearch {
		t.Fatalf("expected search mode, got %s", m.mode)
	}
	press(m, "e", "d", "i")
	if len(m.searchResults) != 1 || m.searchResults[0].Display != "work/editor" {
		t.Fatalf("unexpected results %#v", m.searchResults)
	}
	cmd := press(m, "enter")
	if !isQuit(cmd) {
		t.Fatal("expected activation to quit")
	}
	if g.calls[len(g.calls)-1] != "switch-window work:@1" {
		t.Fatalf("unexpected calls %v", g.calls)
	}

	// Unknown session: a new session is created at the result's path.
	m.setMode(ModeWindow)
	press(m, "F", "p", "l", "a")
	if len(m.searchResults) != 1 || m.searchResults[0].Session != "music" {
		t.Fatalf("unexpected results %#v", m.searchResults)
	}
	cmd = press(m, "enter")
	if !isQuit(cmd) {
		t.Fatal("expected activation to quit")
	}
	want := fmt.Sprintf("new-session music player %s", filepath.Join(root, "music", "player"))
	if g.calls[len(g.calls)-1] != want {
		t.Fatalf("unexpected calls %v", g.calls)
	}
}

func TestEmptyTreeSurvivesEveryKey(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})
	if len(m.tree.Lines) != 0 || m.tree.Selection != 0 {
		t.Fatalf("expected empty tree, got %d lines", len(m.tree.Lines))
	}
	for _, k := range []string{"j", "k", "J", "K", "enter", "r", "x", "R", "/", "esc", "F", "esc", "S", "esc", "C", "G", "ctrl+g", "5"} {
		press(m, k)
	}
	if m.tree.Selection != 0 {
		t.Fatalf("selection drifted to %d", m.tree.Selection)
	}
}

func TestRefreshRearmsAutoPosition(t *testing.T) {
	g := sampleGateway()
	m := newTestModel(t, g)
	press(m, "G")
	if m.tree.Current().Window.ID != "@3" {
		t.Fatalf("expected last window selected, got %s", m.tree.Current().Window.ID)
	}
	press(m, "R")
	if m.tree.Current().Window.ID != "@1" {
		t.Fatalf("refresh should reposition on the active window, got %s", m.tree.Current().Window.ID)
	}
}
