package search

import "strings"

// Pattern names a set of filesystem roots and a slash-delimited template made
// of literal path segments and {session}/{window} placeholders, e.g.
// "{session}/src/{window}". A template without a {session} placeholder uses
// the pattern's own name as the session for every match.
type Pattern struct {
	Name     string
	Roots    []string
	Template string
}

type componentKind int

const (
	componentLiteral componentKind = iota
	componentSession
	componentWindow
	componentFixedSession
)

type component struct {
	kind  componentKind
	value string
}

func (p Pattern) components() []component {
	parts := strings.Split(p.Template, "/")
	hasSession := false
	for _, part := range parts {
		if part == "{session}" {
			hasSession = true
			break
		}
	}
	var out []component
	if !hasSession {
		out = append(out, component{kind: componentFixedSession, value: p.Name})
	}
	for _, part := range parts {
		switch part {
		case "{session}":
			out = append(out, component{kind: componentSession})
		case "{window}":
			out = append(out, component{kind: componentWindow})
		default:
			out = append(out, component{kind: componentLiteral, value: part})
		}
	}
	return out
}
