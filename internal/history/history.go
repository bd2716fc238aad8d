// Package history tracks recently activated windows so they can be
// re-entered with a single keystroke.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atomicstack/tmux-portal/internal/logging"
)

// maxEntries bounds the jump list; digit keys address at most ten slots.
const maxEntries = 10

// Entry identifies one activated window. WindowID is the stable tmux
// window id (e.g. "@3"), not the display index.
type Entry struct {
	Session  string
	WindowID string
}

// Entries persist as two-element arrays, ["session", "@id"].
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Session, e.WindowID})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	e.Session, e.WindowID = pair[0], pair[1]
	return nil
}

// Store is a most-recent-first list of entries persisted as JSON.
type Store struct {
	path    string
	entries []Entry
}

// Load reads the history file at path. A missing or unreadable file
// yields an empty store; history is never a reason to fail startup.
func Load(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		logging.Error(fmt.Errorf("history: discarding corrupt file %s: %w", path, err))
		s.entries = nil
		return s
	}
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}
	return s
}

// Touch records an activation, moving an existing entry for the same
// window to the front and trimming to capacity. The updated list is
// written back immediately; write failures are logged and swallowed.
func (s *Store) Touch(session, windowID string) {
	entry := Entry{Session: session, WindowID: windowID}
	out := make([]Entry, 0, len(s.entries)+1)
	out = append(out, entry)
	for _, e := range s.entries {
		if e != entry {
			out = append(out, e)
		}
	}
	if len(out) > maxEntries {
		out = out[:maxEntries]
	}
	s.entries = out
	s.save()
}

// At returns the entry at index (0 = most recent) and whether it exists.
func (s *Store) At(index int) (Entry, bool) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index], true
}

// Entries returns a copy of the list, most recent first.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int { return len(s.entries) }

func (s *Store) save() {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		logging.Error(fmt.Errorf("history: marshal failed: %w", err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		logging.Error(fmt.Errorf("history: mkdir %s: %w", filepath.Dir(s.path), err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		logging.Error(fmt.Errorf("history: write %s: %w", s.path, err))
	}
}
