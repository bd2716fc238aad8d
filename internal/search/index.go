package search

import (
	"os"
	"path/filepath"
	"sort"
)

// Result is one project candidate, annotated with ranking data when produced
// by a query.
type Result struct {
	Display string
	Session string
	Window  string
	Path    string
	Score   int
	Indices []int
}

// Index scans the configured patterns into a flat candidate pool and ranks it
// per query. The pool is built by Refresh; queries never touch the
// filesystem.
type Index struct {
	patterns   []Pattern
	candidates []Result
}

func NewIndex(patterns []Pattern) *Index {
	return &Index{patterns: patterns}
}

// Refresh rescans every pattern root. Missing roots and unreadable
// directories are skipped; a bad root never fails the whole scan.
func (idx *Index) Refresh() {
	idx.candidates = idx.candidates[:0]
	for _, pattern := range idx.patterns {
		components := pattern.components()
		for _, root := range pattern.Roots {
			info, err := os.Stat(root)
			if err != nil || !info.IsDir() {
				continue
			}
			idx.scan(root, components, nil)
		}
	}
}

type capture struct {
	kind  componentKind
	value string
}

func (idx *Index) scan(dir string, remaining []component, captured []capture) {
	if len(remaining) == 0 {
		session, window := "", ""
		for _, c := range captured {
			switch c.kind {
			case componentSession, componentFixedSession:
				session = c.value
			case componentWindow:
				window = c.value
			}
		}
		if session == "" || window == "" {
			return
		}
		idx.candidates = append(idx.candidates, Result{
			Display: session + "/" + window,
			Session: session,
			Window:  window,
			Path:    dir,
		})
		return
	}
	head, tail := remaining[0], remaining[1:]
	switch head.kind {
	case componentLiteral:
		next := filepath.Join(dir, head.value)
		if info, err := os.Stat(next); err == nil && info.IsDir() {
			idx.scan(next, tail, captured)
		}
	case componentSession, componentWindow:
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			idx.scan(filepath.Join(dir, entry.Name()), tail,
				append(captured, capture{kind: head.kind, value: entry.Name()}))
		}
	case componentFixedSession:
		idx.scan(dir, tail, append(captured, capture{kind: head.kind, value: head.value}))
	}
}

// Search ranks the cached candidates against the query. An empty query
// returns the full pool in scan order. Ties keep their original pool order.
func (idx *Index) Search(query string) []Result {
	if query == "" {
		out := make([]Result, len(idx.candidates))
		copy(out, idx.candidates)
		return out
	}
	var results []Result
	for _, candidate := range idx.candidates {
		score, indices, ok := Match(candidate.Display, query)
		if !ok {
			continue
		}
		scored := candidate
		scored.Score = score
		scored.Indices = indices
		results = append(results, scored)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Size reports the number of cached candidates.
func (idx *Index) Size() int {
	return len(idx.candidates)
}
