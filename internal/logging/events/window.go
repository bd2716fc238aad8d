package events

import "github.com/atomicstack/tmux-portal/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Switch(session, windowID string) {
	logging.Trace("window.switch", map[string]interface{}{"session": session, "window": windowID})
}

func (WindowTracer) Rename(target, name string) {
	logging.Trace("window.rename", map[string]interface{}{"target": target, "name": name})
}

func (WindowTracer) Kill(target string) {
	logging.Trace("window.kill", map[string]interface{}{"target": target})
}

func (WindowTracer) Swap(first, second string) {
	logging.Trace("window.swap", map[string]interface{}{"first": first, "second": second})
}

func (WindowTracer) Create(session string) {
	logging.Trace("window.create", map[string]interface{}{"session": session})
}
