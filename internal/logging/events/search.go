package events

import "github.com/atomicstack/tmux-portal/internal/logging"

type SearchTracer struct{}

type HistoryTracer struct{}

var (
	Search  = SearchTracer{}
	History = HistoryTracer{}
)

func (SearchTracer) Refresh(patterns, candidates int) {
	logging.Trace("search.refresh", map[string]interface{}{"patterns": patterns, "candidates": candidates})
}

func (SearchTracer) Query(query string, results int) {
	logging.Trace("search.query", map[string]interface{}{"query": query, "results": results})
}

func (SearchTracer) Open(session, window, path string) {
	logging.Trace("search.open", map[string]interface{}{"session": session, "window": window, "path": path})
}

func (SearchTracer) QuickQuery(query string, results int) {
	logging.Trace("search.quick.query", map[string]interface{}{"query": query, "results": results})
}

func (HistoryTracer) Touch(session, windowID string) {
	logging.Trace("history.touch", map[string]interface{}{"session": session, "window": windowID})
}

func (HistoryTracer) Jump(index int, session, windowID string) {
	logging.Trace("history.jump", map[string]interface{}{"index": index, "session": session, "window": windowID})
}
