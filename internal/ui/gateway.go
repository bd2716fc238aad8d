package ui

import "github.com/atomicstack/tmux-portal/internal/tmux"

// Gateway is the slice of tmux the model drives. Every call is synchronous;
// the model blocks on it and surfaces failures in the status line.
type Gateway interface {
	Sessions() ([]tmux.Session, error)
	CurrentSession() (string, error)
	SwitchToWindow(session, windowID string) error
	SwitchToSession(session string) error
	RenameWindow(session, windowID, newName string) error
	RenameSession(oldName, newName string) error
	KillWindow(session, windowID string) error
	KillSession(name string) error
	NewWindow(session string) error
	SwapWindows(session, first, second string) error
	NewWindowInSession(session, window, dir string) error
	NewSessionWithWindow(session, window, dir string) error
}

var _ Gateway = (*tmux.Client)(nil)
