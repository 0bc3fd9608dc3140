package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/logentry"
)

// renderMain renders the log pane, the status bar and the footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderLogRows())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderLogRows renders the visible window of the filtered view. Context
// rows are dimmed whenever a filter is active.
func (m Model) renderLogRows() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	rows := m.logRows()
	width := m.width

	visible := m.ctrl.Visible()
	lines := make([]string, 0, rows)
	if len(visible) == 0 {
		msg := "No log entries"
		if !m.ctrl.Filters().IsEmpty() && m.ctrl.Store().Len() > 0 {
			msg = "No entries match the current filters"
		}
		lines = append(lines, bg.FillLine(bg.Render(msg, styles.MutedText), width))
	}

	filtered := !m.ctrl.Filters().IsEmpty()
	gutter := gutterWidth(m.ctrl.Store().LastLineNumber())
	view := m.ctrl.View()
	for i, e := range visible {
		idx := m.ctrl.ScrollOffset() + i
		if idx == m.ctrl.Selected() {
			lines = append(lines, m.renderSelectedRow(e, gutter, width))
			continue
		}
		dim := filtered && !view.IsMatch(e.LineNumber)
		lines = append(lines, bg.FillLine(m.renderRow(e, gutter, width, dim, bg, styles), width))
	}
	for len(lines) < rows {
		lines = append(lines, bg.FillLine("", width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSelectedRow(e logentry.Entry, gutter, width int) string {
	text := fmt.Sprintf("%*d │ %s", gutter, e.LineNumber, e.RawLine)
	return m.theme.Styles().Selected.Width(width).Render(clip(text, width))
}

// renderRow colors one entry: faint line number, then the parsed fields for
// recognised formats, or the raw text for everything else.
func (m Model) renderRow(e logentry.Entry, gutter, width int, dim bool, bg BgStyle, styles Styles) string {
	numStyle := styles.FaintText
	if m.ctrl.IsSearchHit(e.RawLine) {
		numStyle = styles.WarningText.Bold(true)
	}
	prefix := bg.Render(fmt.Sprintf("%*d", gutter, e.LineNumber), numStyle) + bg.Render(" │ ", styles.FaintText)
	room := width - gutter - 3

	if dim {
		return prefix + bg.Render(clip(e.RawLine, room), styles.FaintText)
	}
	if e.Format == logentry.FormatFallback {
		return prefix + bg.Render(clip(e.RawLine, room), styles.Text)
	}

	var parts []string
	used := 0
	add := func(text string, style lipgloss.Style) {
		if room-used <= 0 || text == "" {
			return
		}
		text = clip(text, room-used)
		used += lipgloss.Width(text) + 1
		parts = append(parts, bg.Render(text, style))
	}
	if e.HasTimestamp() {
		add(e.Timestamp, styles.MutedText)
	}
	if e.HasFrame {
		add("#"+strconv.Itoa(e.Frame), styles.FaintText)
	}
	add(e.Category, styles.AccentText)
	if e.Level != "" {
		add(e.Level, styles.LevelStyle(e.Level).Bold(true))
	}
	msgStyle := styles.Text
	if e.Level != "" {
		msgStyle = styles.LevelStyle(e.Level)
	}
	add(e.Message, msgStyle)
	return prefix + strings.Join(parts, bg.Space())
}

// renderStatus renders the status bar: tailing badge, file, counts, filter
// summary, context, search and poll health.
func (m Model) renderStatus() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles()
	c := m.ctrl

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.Muted)).
		Bold(true).
		Padding(0, 1)
	label := "STATIC"
	if c.State().IsTailing {
		label = "LIVE"
		badge = badge.Background(lipgloss.Color(m.theme.Success))
	}
	if m.healthSnap.IsStalled(m.stallThreshold) {
		label = "STALLED"
		badge = badge.Background(lipgloss.Color(m.theme.Danger))
	}

	var parts []string
	parts = append(parts, bg.Render(filepath.Base(c.Path()), styles.Text))
	parts = append(parts, bg.Render(fmt.Sprintf("%d/%d lines", c.View().Len(), c.Store().Len()), styles.MutedText))

	if f := c.Filters(); !f.IsEmpty() {
		text := f.Summary()
		if f.Mode() == filter.ModeExpression {
			text = "expr " + text
		} else if text == "" {
			text = "all filters off"
		}
		parts = append(parts, bg.Render(text, styles.AccentText))
	}
	parts = append(parts, bg.Render(fmt.Sprintf("context %d", c.Filters().ContextLines()), styles.MutedText))

	if q := c.SearchQuery(); q != "" {
		parts = append(parts, bg.Render(fmt.Sprintf("/%s %d hits", q, c.SearchHits()), styles.WarningText))
	}

	switch {
	case m.flash != "" && m.flashIsErr:
		parts = append(parts, bg.Render(m.flash, styles.DangerText))
	case m.flash != "":
		parts = append(parts, bg.Render(m.flash, styles.SuccessText))
	case m.healthSnap.LastError != nil:
		parts = append(parts, bg.Render(fmt.Sprintf("read error (%d): %v", m.healthSnap.ConsecutiveFailures, m.healthSnap.LastError), styles.DangerText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	content := badge.Render(label) + bg.Space() + strings.Join(parts, sep)
	return bg.FillLine(content, m.width)
}

// renderFooter renders the prompt when one is open, otherwise the short help.
func (m Model) renderFooter() string {
	if m.prompt != promptNone {
		return m.input.View()
	}
	var toggles []string
	for i, item := range m.ctrl.Filters().Toggles().Items() {
		if i >= 9 {
			break
		}
		mark := " "
		if item.Active {
			mark = "x"
		}
		toggles = append(toggles, fmt.Sprintf("%d[%s]%s", i+1, mark, item.Predicate))
	}
	helpLine := m.help.ShortHelpView(m.keys.ShortHelp())
	if len(toggles) == 0 {
		return helpLine
	}
	styles := m.theme.Styles()
	return clip(styles.MutedText.Render(strings.Join(toggles, " "))+"  "+helpLine, max(1, m.width))
}

func gutterWidth(lastLine int) int {
	return max(4, len(strconv.Itoa(lastLine)))
}
