package tree

import (
	"strings"
	"testing"

	"github.com/atomicstack/tmux-portal/internal/tmux"
)

func sampleSessions() []tmux.Session {
	return []tmux.Session{
		{
			Name: "work",
			Windows: []tmux.Window{
				{ID: "@1", Name: "editor", Session: "work", Active: true},
				{ID: "@2", Name: "server", Session: "work"},
			},
		},
		{
			Name: "chat",
			Windows: []tmux.Window{
				{ID: "@3", Name: "irc", Session: "chat", Active: true},
			},
		},
	}
}

func TestBuildKeepsSessionLinesContiguous(t *testing.T) {
	sessions := sampleSessions()
	sessions = append(sessions, tmux.Session{Name: "empty"})
	lines := Build(sessions, false)

	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	wantKinds := []Kind{KindSession, KindWindow, KindWindow, KindSession, KindWindow, KindSession}
	for i, k := range wantKinds {
		if lines[i].Kind != k {
			t.Fatalf("line %d: expected kind %v, got %v", i, k, lines[i].Kind)
		}
	}
	for i, line := range lines {
		if line.Kind == KindWindow && (line.Window == nil || line.Session == "") {
			t.Fatalf("window line %d missing window or session", i)
		}
		if line.Kind == KindSession && line.Window != nil {
			t.Fatalf("session line %d carries a window", i)
		}
	}
	if lines[1].Content != "├── editor (active)" {
		t.Fatalf("unexpected middle-child content %q", lines[1].Content)
	}
	if lines[2].Content != "└── server" {
		t.Fatalf("unexpected last-child content %q", lines[2].Content)
	}
	if lines[5].Content != "empty" {
		t.Fatalf("expected bare line for zero-window session, got %q", lines[5].Content)
	}
}

func TestBuildDisambiguatesDuplicateWindowNames(t *testing.T) {
	sessions := []tmux.Session{{
		Name: "dev",
		Windows: []tmux.Window{
			{ID: "@1", Name: "shell", Session: "dev"},
			{ID: "@2", Name: "shell", Session: "dev", Active: true},
		},
	}}

	lines := Build(sessions, true)
	if !strings.Contains(lines[1].Content, "shell [@1]") {
		t.Fatalf("expected id suffix, got %q", lines[1].Content)
	}
	if !strings.Contains(lines[2].Content, "shell [@2] (active)") {
		t.Fatalf("expected id suffix before active marker, got %q", lines[2].Content)
	}

	lines = Build(sessions, false)
	if strings.Contains(lines[1].Content, "[@1]") {
		t.Fatalf("ids should be hidden when disabled, got %q", lines[1].Content)
	}
}

func TestEnsureValidSelectionLandsOnWindow(t *testing.T) {
	m := &Model{}
	m.SetSessions(sampleSessions())

	m.Selection = 0
	m.EnsureValidSelection()
	if m.Lines[m.Selection].Kind != KindWindow {
		t.Fatalf("expected window line, got kind %v at %d", m.Lines[m.Selection].Kind, m.Selection)
	}

	// A selection on the last session line must wrap back to a window.
	m.Selection = 3
	m.EnsureValidSelection()
	if m.Selection != 4 {
		t.Fatalf("expected forward scan to find index 4, got %d", m.Selection)
	}

	m.Selection = 5
	m.EnsureValidSelection()
	if m.Lines[m.Selection].Kind != KindWindow {
		t.Fatalf("expected repair from out-of-range, got %d", m.Selection)
	}
}

func TestEnsureValidSelectionEmptyAndWindowless(t *testing.T) {
	m := &Model{}
	m.SetSessions(nil)
	m.Selection = 7
	m.EnsureValidSelection()
	if m.Selection != 0 {
		t.Fatalf("expected selection 0 on empty tree, got %d", m.Selection)
	}

	m.SetSessions([]tmux.Session{{Name: "a"}, {Name: "b"}})
	m.Selection = 1
	m.EnsureValidSelection()
	if m.Selection != 0 {
		t.Fatalf("expected selection 0 with no windows, got %d", m.Selection)
	}
}

func TestUpdateScrollKeepsSelectionVisible(t *testing.T) {
	m := &Model{}
	sessions := []tmux.Session{{Name: "s"}}
	for i := 0; i < 30; i++ {
		sessions[0].Windows = append(sessions[0].Windows, tmux.Window{ID: "@w", Name: "w", Session: "s"})
	}
	m.SetSessions(sessions)

	for _, viewport := range []int{1, 2, 5, 12} {
		for sel := 0; sel < len(m.Lines); sel++ {
			m.Selection = sel
			m.UpdateScroll(viewport)
			if m.ScrollOffset > m.Selection {
				t.Fatalf("viewport %d selection %d: offset %d above selection", viewport, sel, m.ScrollOffset)
			}
			if m.Selection >= m.ScrollOffset+viewport {
				t.Fatalf("viewport %d selection %d: selection below viewport (offset %d)", viewport, sel, m.ScrollOffset)
			}
		}
	}
}

func TestSessionNavigationAndReorder(t *testing.T) {
	m := &Model{}
	m.SetSessions(sampleSessions())

	m.FirstSession()
	if m.Selection != 0 {
		t.Fatalf("expected first session at 0, got %d", m.Selection)
	}
	m.NextSession()
	if m.Lines[m.Selection].Session != "chat" {
		t.Fatalf("expected chat, got %q", m.Lines[m.Selection].Session)
	}
	m.NextSession()
	if m.Lines[m.Selection].Session != "chat" {
		t.Fatalf("expected to stay on last session, got %q", m.Lines[m.Selection].Session)
	}

	if !m.SwapSessions("chat", "work") {
		t.Fatal("expected swap to succeed")
	}
	if m.Sessions[0].Name != "chat" || m.Sessions[1].Name != "work" {
		t.Fatalf("unexpected session order %q/%q", m.Sessions[0].Name, m.Sessions[1].Name)
	}
	if idx := m.FindSessionLine("chat"); idx != 0 {
		t.Fatalf("expected chat line first after swap, got %d", idx)
	}
	// Windows stay with their sessions after a reorder.
	if idx := m.FindWindowLine("@3"); m.Lines[idx].Session != "chat" {
		t.Fatalf("window @3 migrated to %q", m.Lines[idx].Session)
	}
}

func TestWindowNeighboursStayInSession(t *testing.T) {
	m := &Model{}
	m.SetSessions(sampleSessions())

	// "server" (last window of work) has no next window inside work.
	m.Selection = m.FindWindowLine("@2")
	if idx := m.NextWindowInSession(); idx != -1 {
		t.Fatalf("expected no next window in session, got %d", idx)
	}
	if idx := m.PrevWindowInSession(); idx != m.FindWindowLine("@1") {
		t.Fatalf("expected previous window @1, got %d", idx)
	}

	// "irc" is alone in chat.
	m.Selection = m.FindWindowLine("@3")
	if idx := m.PrevWindowInSession(); idx != -1 {
		t.Fatalf("expected no previous window across sessions, got %d", idx)
	}
}

func TestWindowLineNumbersRelativeToSelection(t *testing.T) {
	m := &Model{}
	m.SetSessions(sampleSessions())

	m.Selection = m.FindWindowLine("@2")
	numbers := m.WindowLineNumbers()
	if numbers[m.FindWindowLine("@1")] != -1 {
		t.Fatalf("expected -1 above selection, got %d", numbers[m.FindWindowLine("@1")])
	}
	if numbers[m.Selection] != 0 {
		t.Fatalf("expected 0 at selection, got %d", numbers[m.Selection])
	}
	if numbers[m.FindWindowLine("@3")] != 1 {
		t.Fatalf("expected 1 below selection, got %d", numbers[m.FindWindowLine("@3")])
	}

	m.Selection = 0 // session line
	if len(m.WindowLineNumbers()) != 0 {
		t.Fatal("expected no numbers when selection is not a window")
	}
}

func TestPositionOnActive(t *testing.T) {
	m := &Model{}
	m.SetSessions(sampleSessions())

	m.PositionOnActive("chat")
	if m.Lines[m.Selection].Window == nil || m.Lines[m.Selection].Window.ID != "@3" {
		t.Fatalf("expected chat's active window, got selection %d", m.Selection)
	}

	m.PositionOnActive("")
	if m.Lines[m.Selection].Window == nil || m.Lines[m.Selection].Window.ID != "@1" {
		t.Fatalf("expected first active window fallback, got selection %d", m.Selection)
	}

	// Session with no active window falls back to its session line.
	sessions := sampleSessions()
	sessions[1].Windows[0].Active = false
	m.SetSessions(sessions)
	m.Selection = 0
	m.PositionOnActive("chat")
	if m.Selection != m.FindSessionLine("chat") {
		t.Fatalf("expected chat session line, got %d", m.Selection)
	}
}
