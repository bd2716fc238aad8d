package tree

import (
	"fmt"

	"github.com/atomicstack/tmux-portal/internal/tmux"
)

// Kind discriminates the two line variants.
type Kind int

const (
	KindSession Kind = iota
	KindWindow
)

// Line is one renderable row of the flattened session/window tree. Window
// lines always carry both the owning session name and the window; session
// lines never carry a window.
type Line struct {
	Kind    Kind
	Content string
	Session string
	Window  *tmux.Window
}

// Build flattens the session list into displayable lines. Each session
// renders as a one-level tree: the session name followed by its windows with
// box-drawing connectors. A session with no windows still emits its own line.
// When showWindowIDs is set and a session contains duplicate window names,
// every window in that session is suffixed with its id for disambiguation.
func Build(sessions []tmux.Session, showWindowIDs bool) []Line {
	var lines []Line
	for si := range sessions {
		session := &sessions[si]
		lines = append(lines, Line{
			Kind:    KindSession,
			Content: session.Name,
			Session: session.Name,
		})
		showIDs := showWindowIDs && hasDuplicateNames(session.Windows)
		for wi := range session.Windows {
			window := &session.Windows[wi]
			connector := "├── "
			if wi == len(session.Windows)-1 {
				connector = "└── "
			}
			lines = append(lines, Line{
				Kind:    KindWindow,
				Content: connector + windowLabel(window, showIDs),
				Session: session.Name,
				Window:  window,
			})
		}
	}
	return lines
}

func windowLabel(w *tmux.Window, showID bool) string {
	label := w.Name
	if showID {
		label = fmt.Sprintf("%s [%s]", w.Name, w.ID)
	}
	if w.Active {
		label += " (active)"
	}
	return label
}

func hasDuplicateNames(windows []tmux.Window) bool {
	seen := make(map[string]struct{}, len(windows))
	for _, w := range windows {
		if _, ok := seen[w.Name]; ok {
			return true
		}
		seen[w.Name] = struct{}{}
	}
	return false
}
