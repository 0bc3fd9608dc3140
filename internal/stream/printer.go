package stream

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/logentry"
)

// Printer writes entries that pass the filters, with up to ContextLines
// entries of context before and after each match, in the style of grep -n:
// matches use ':' after the line number, context uses '-', and a "--" line
// separates non-adjacent groups.
type Printer struct {
	filters *filter.Store
	out     io.Writer
	color   bool
	width   int
	styles  styles

	before  []logentry.Entry
	after   int
	last    int
	printed int
}

// NewPrinter returns a printer writing to out. With color set, fields are
// styled per level; a positive width cuts long lines.
func NewPrinter(filters *filter.Store, out io.Writer, color bool, width int) *Printer {
	return &Printer{
		filters: filters,
		out:     out,
		color:   color,
		width:   width,
		styles:  defaultStyles(),
	}
}

// Printed reports how many entries have been written.
func (p *Printer) Printed() int { return p.printed }

// Add considers one entry.
func (p *Printer) Add(e logentry.Entry) error {
	if p.filters.IsEmpty() {
		return p.write(e, true)
	}

	context := p.filters.ContextLines()
	if p.filters.Matches(e) {
		for _, b := range p.before {
			if err := p.write(b, false); err != nil {
				return err
			}
		}
		p.before = p.before[:0]
		p.after = context
		return p.write(e, true)
	}

	if p.after > 0 {
		p.after--
		return p.write(e, false)
	}

	if context > 0 {
		if len(p.before) == context {
			p.before = append(p.before[:0], p.before[1:]...)
		}
		p.before = append(p.before, e)
	}
	return nil
}

func (p *Printer) write(e logentry.Entry, match bool) error {
	if p.last > 0 && e.LineNumber > p.last+1 && !p.filters.IsEmpty() {
		if _, err := fmt.Fprintln(p.out, p.faint(separator)); err != nil {
			return err
		}
	}
	p.last = e.LineNumber
	p.printed++
	_, err := fmt.Fprintln(p.out, p.format(e, match))
	return err
}

const separator = "--"

func (p *Printer) format(e logentry.Entry, match bool) string {
	mark := "-"
	if match {
		mark = ":"
	}
	num := strconv.Itoa(e.LineNumber) + mark

	if !p.color {
		return p.clip(num + e.RawLine)
	}
	if !match {
		return p.faint(p.clip(num + e.RawLine))
	}
	if e.Format == logentry.FormatFallback {
		return p.clip(p.styles.number.Render(num) + e.RawLine)
	}

	var parts []string
	if e.HasTimestamp() {
		parts = append(parts, p.styles.timestamp.Render(e.Timestamp))
	}
	if e.HasFrame {
		parts = append(parts, p.styles.frame.Render("#"+strconv.Itoa(e.Frame)))
	}
	parts = append(parts, p.styles.category.Render(e.Category))
	level := p.styles.levelStyle(e.Level)
	if e.Level != "" {
		parts = append(parts, level.Bold(true).Render(e.Level))
	}
	parts = append(parts, level.Render(e.Message))
	return p.clip(p.styles.number.Render(num) + strings.Join(parts, " "))
}

func (p *Printer) faint(text string) string {
	if !p.color {
		return text
	}
	return p.styles.context.Render(text)
}

func (p *Printer) clip(s string) string {
	if p.width <= 0 || ansi.StringWidth(s) <= p.width {
		return s
	}
	return ansi.Truncate(s, p.width, "…")
}

type styles struct {
	number    lipgloss.Style
	timestamp lipgloss.Style
	frame     lipgloss.Style
	category  lipgloss.Style
	context   lipgloss.Style
	levels    map[string]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		number:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		timestamp: lipgloss.NewStyle().Faint(true),
		frame:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		category:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		context:   lipgloss.NewStyle().Faint(true),
		levels: map[string]lipgloss.Style{
			"fatal":       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			"error":       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			"warning":     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			"display":     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			"verbose":     lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
			"veryverbose": lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}

func (s styles) levelStyle(level string) lipgloss.Style {
	if st, ok := s.levels[strings.ToLower(level)]; ok {
		return st
	}
	return lipgloss.NewStyle()
}
