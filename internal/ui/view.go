package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-portal/internal/format/table"
	"github.com/atomicstack/tmux-portal/internal/tree"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case ModeRename:
		return m.viewRename()
	case ModeSearch:
		return m.viewSearch()
	case ModeQuickSearch:
		return m.viewQuickSearch()
	}
	return m.viewTree()
}

// viewTree renders the session/window tree with the bottom status bar. It
// backs Window, Session and DeleteConfirm modes.
func (m *Model) viewTree() string {
	lines := make([]styledLine, 0, len(m.tree.Lines)+4)
	viewport := m.treeViewportHeight()
	m.tree.UpdateScroll(viewport)
	start := m.tree.ScrollOffset
	end := len(m.tree.Lines)
	if viewport > 0 && start+viewport < end {
		end = start + viewport
	}
	if start > end {
		start = end
	}
	numbers := m.tree.WindowLineNumbers()
	numberWidth := m.lineNumberWidth(numbers)
	if len(m.tree.Lines) == 0 {
		lines = append(lines, styledLine{text: "(no sessions)", style: styles.Info})
	}
	for i := start; i < end; i++ {
		lines = append(lines, m.buildTreeLine(i, numbers, numberWidth))
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.footerHint(), style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(append(lines, m.bottomBar()...))
}

func (m *Model) viewRename() string {
	title := ""
	switch m.renameTarget.Kind {
	case tree.KindWindow:
		title = fmt.Sprintf("Rename window %s", m.renameTarget.Window.Name)
	case tree.KindSession:
		title = fmt.Sprintf("Rename session %s", m.renameTarget.Session)
	}
	lines := []string{
		styles.Header.Render(title),
		"",
		m.renameInput.View(),
		"",
		styles.Footer.Render("Press Enter to rename. Esc to cancel."),
	}
	if m.errMsg != "" {
		lines = append(lines, "", styles.Error.Render(fmt.Sprintf("Error: %s", m.errMsg)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewSearch() string {
	lines := make([]styledLine, 0, len(m.searchResults)+2)
	lines = append(lines, styledLine{text: "Project search", style: styles.Header})
	if len(m.searchResults) == 0 {
		msg := "(no projects found)"
		if m.searchQuery != "" {
			msg = fmt.Sprintf("No matches for %q", m.searchQuery)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	}
	rows := make([][]string, 0, len(m.searchResults))
	for _, r := range m.searchResults {
		rows = append(rows, []string{r.Display, r.Path})
	}
	formatted := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	for i, row := range formatted {
		if i == m.searchSelection {
			lines = append(lines, styledLine{text: "▌ " + row, style: styles.SelectedItem})
			continue
		}
		// Display sits at the start of the padded row, so the match
		// indices still line up.
		lines = append(lines, styledLine{text: "  " + highlight(row, m.searchResults[i].Indices), raw: true})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(append(lines, m.bottomBar()...))
}

func (m *Model) viewQuickSearch() string {
	lines := make([]styledLine, 0, len(m.quickMatches)+2)
	lines = append(lines, styledLine{text: "Quick search", style: styles.Header})
	if len(m.quickMatches) == 0 {
		msg := "(no lines)"
		if m.quickQuery != "" {
			msg = fmt.Sprintf("No matches for %q", m.quickQuery)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	}
	for i, match := range m.quickMatches {
		if match.line >= len(m.tree.Lines) {
			continue
		}
		text := quickSearchText(&m.tree.Lines[match.line])
		if i == m.quickSelection {
			lines = append(lines, styledLine{text: "▌ " + text, style: styles.SelectedItem})
			continue
		}
		lines = append(lines, styledLine{text: "  " + highlight(text, match.indices), raw: true})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(append(lines, m.bottomBar()...))
}

// bottomBar is the two-row status area: error/status line plus the
// mode-specific prompt.
func (m *Model) bottomBar() []styledLine {
	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	var promptLine styledLine
	switch m.mode {
	case ModeDeleteConfirm:
		promptLine = styledLine{text: m.deletePrompt, style: styles.Prompt}
	case ModeSearch:
		promptLine = styledLine{text: "» " + m.searchQuery, style: styles.Filter}
	case ModeQuickSearch:
		promptLine = styledLine{text: "/ " + m.quickQuery, style: styles.Filter}
	case ModeSession:
		promptLine = styledLine{text: "[session]", style: styles.FilterPlaceholder}
	}
	return applyWidth([]styledLine{statusLine, promptLine}, m.width)
}

func (m *Model) buildTreeLine(index int, numbers map[int]int, numberWidth int) styledLine {
	line := m.tree.Lines[index]
	prefix := ""
	if numberWidth > 0 {
		if offset, ok := numbers[index]; ok {
			n := offset
			if n < 0 {
				n = -n
			}
			prefix = fmt.Sprintf("%*d ", numberWidth, n)
		} else {
			prefix = strings.Repeat(" ", numberWidth+1)
		}
	}
	text := prefix + line.Content
	if index == m.tree.Selection {
		return styledLine{text: text, style: styles.SelectedLine}
	}
	style := styles.Window
	switch {
	case line.Kind == tree.KindSession:
		style = styles.Session
	case line.Window != nil && line.Window.Active:
		style = styles.ActiveWindow
	}
	return styledLine{text: text, style: style}
}

// lineNumberWidth sizes the relative number column: wide enough for the
// largest offset, capped by configuration. Zero hides the column.
func (m *Model) lineNumberWidth(numbers map[int]int) int {
	if m.lineNumberPadding <= 0 || len(numbers) == 0 {
		return 0
	}
	max := 0
	for _, n := range numbers {
		if n < 0 {
			n = -n
		}
		if n > max {
			max = n
		}
	}
	width := 1
	for max >= 10 {
		width++
		max /= 10
	}
	if width > m.lineNumberPadding {
		width = m.lineNumberPadding
	}
	return width
}

func (m *Model) treeViewportHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - 2
	if m.showFooter {
		h -= 2
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) footerHint() string {
	switch m.mode {
	case ModeSession:
		return "j/k move  J/K reorder  enter switch  r rename  x delete  esc back"
	default:
		return "j/k move  enter switch  / quick search  F projects  S sessions  q quit"
	}
}

// highlight wraps matched rune positions in the match style. The result
// carries ANSI escapes, so callers must treat it as raw.
func highlight(text string, indices []int) string {
	if len(indices) == 0 {
		return styles.Item.Render(text)
	}
	matched := make(map[int]bool, len(indices))
	for _, idx := range indices {
		matched[idx] = true
	}
	var b strings.Builder
	for i, r := range []rune(text) {
		if matched[i] {
			b.WriteString(styles.MatchHighlight.Render(string(r)))
		} else {
			b.WriteString(styles.Item.Render(string(r)))
		}
	}
	return b.String()
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if w := lipgloss.Width(text); w > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
