package events

import "github.com/atomicstack/tmux-portal/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Switch(target string) {
	logging.Trace("session.switch", map[string]interface{}{"target": target})
}

func (SessionTracer) Rename(target, name string) {
	logging.Trace("session.rename", map[string]interface{}{"target": target, "name": name})
}

func (SessionTracer) Kill(target string) {
	logging.Trace("session.kill", map[string]interface{}{"target": target})
}

func (SessionTracer) Reorder(first, second string) {
	logging.Trace("session.reorder", map[string]interface{}{"first": first, "second": second})
}
