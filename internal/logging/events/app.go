package events

import "github.com/atomicstack/tmux-portal/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Mode(from, to string) {
	logging.Trace("app.mode", map[string]interface{}{"from": from, "to": to})
}

func (AppTracer) Refresh(sessions, windows int) {
	logging.Trace("app.refresh", map[string]interface{}{"sessions": sessions, "windows": windows})
}

func (AppTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("app.error", map[string]interface{}{"error": err.Error()})
}
