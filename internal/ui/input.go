package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/presets"
	"github.com/five82/logtrail/internal/tail"
)

// promptKind selects what the footer input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptFilter
	promptNarrow
	promptJump
	promptSavePreset
	promptLoadPreset
)

func (p promptKind) label() string {
	switch p {
	case promptSearch:
		return "/"
	case promptFilter:
		return "filter: "
	case promptNarrow:
		return "narrow: "
	case promptJump:
		return "line: "
	case promptSavePreset:
		return "save preset: "
	case promptLoadPreset:
		return "load preset: "
	default:
		return ""
	}
}

func (p promptKind) placeholder() string {
	switch p {
	case promptSearch:
		return "text to find"
	case promptFilter, promptNarrow:
		return "level:Error  logger:LogNet  logger~net  text:timeout  frame>120"
	case promptJump:
		return "line number"
	default:
		return "name"
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	m.flash = ""
	m.flashIsErr = false
	c := m.ctrl

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.presets.Theme = m.theme.Name
		if m.presetsPath != "" {
			if err := presets.Save(m.presetsPath, m.presets); err != nil {
				m.log.WithError(err).Warn("save theme failed")
			}
		}

	case key.Matches(msg, m.keys.Escape):
		c.ClearSearch()

	case key.Matches(msg, m.keys.Reload):
		m.report(c.Reload(), "reloaded "+c.Path())

	// Navigation
	case key.Matches(msg, m.keys.Up):
		c.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		c.MoveDown(1)
	case key.Matches(msg, m.keys.Top):
		c.Top()
	case key.Matches(msg, m.keys.Bottom):
		c.Bottom()
	case key.Matches(msg, m.keys.PageUp):
		c.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		c.PageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		c.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		c.HalfPageDown()
	case key.Matches(msg, m.keys.JumpToLine):
		return m.openPrompt(promptJump)

	// Tailing
	case key.Matches(msg, m.keys.ToggleTail):
		m.report(c.ToggleTailing(), "")

	// Search
	case key.Matches(msg, m.keys.Search):
		return m.openPrompt(promptSearch)
	case key.Matches(msg, m.keys.NextMatch):
		c.NextMatch()
	case key.Matches(msg, m.keys.PrevMatch):
		c.PrevMatch()
	case key.Matches(msg, m.keys.Promote):
		m.report(c.PromoteSearch(), "")

	// Filters
	case key.Matches(msg, m.keys.AddFilter):
		return m.openPrompt(promptFilter)
	case key.Matches(msg, m.keys.Narrow):
		return m.openPrompt(promptNarrow)
	case key.Matches(msg, m.keys.NarrowLogger):
		m.report(c.NarrowToSelected(filter.LoggerEquals), "")
	case key.Matches(msg, m.keys.NarrowLevel):
		m.report(c.NarrowToSelected(filter.LevelEquals), "")
	case key.Matches(msg, m.keys.NarrowTime):
		m.report(c.NarrowToSelected(filter.TimestampAfter), "")
	case key.Matches(msg, m.keys.NarrowFrame):
		m.report(c.NarrowToSelected(filter.FrameAfter), "")
	case key.Matches(msg, m.keys.Widen):
		c.PopExpression()
	case key.Matches(msg, m.keys.ToggleFilter):
		pos, _ := strconv.Atoi(msg.String())
		if !c.ToggleFilterAt(pos - 1) {
			m.setFlash(fmt.Sprintf("no filter #%d", pos), true)
		}
	case key.Matches(msg, m.keys.ClearFilters):
		c.ClearFilters()
	case key.Matches(msg, m.keys.MoreContext):
		c.IncreaseContext()
	case key.Matches(msg, m.keys.LessContext):
		c.DecreaseContext()
	case key.Matches(msg, m.keys.SavePreset):
		return m.openPrompt(promptSavePreset)
	case key.Matches(msg, m.keys.LoadPreset):
		return m.openPrompt(promptLoadPreset)
	}

	return m, nil
}

func (m Model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Prompt = kind.label()
	m.input.Placeholder = kind.placeholder()
	m.input.SetValue("")
	if kind == promptLoadPreset {
		if names := m.presets.Names(); len(names) > 0 {
			m.input.Placeholder = strings.Join(names, ", ")
		}
	}
	return m, m.input.Focus()
}

func (m Model) closePrompt() Model {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
	return m
}

// handlePromptKey handles keyboard input while the footer prompt is open.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.closePrompt(), nil

	case key.Matches(msg, m.keys.Confirm):
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m = m.closePrompt()
		if value == "" {
			return m, nil
		}
		m.submitPrompt(kind, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt(kind promptKind, value string) {
	c := m.ctrl
	switch kind {
	case promptSearch:
		if !c.Search(value) {
			m.setFlash("pattern not found: "+value, true)
		}

	case promptFilter, promptNarrow:
		p, err := filter.ParsePredicate(value)
		if err != nil {
			m.setFlash(err.Error(), true)
			return
		}
		if kind == promptFilter {
			c.AddFilter(p)
		} else {
			c.AddToExpression(p)
		}

	case promptJump:
		line, err := strconv.Atoi(value)
		if err != nil || line < 1 {
			m.setFlash("not a line number: "+value, true)
			return
		}
		m.report(c.JumpToLine(line), "")

	case promptSavePreset:
		m.presets.Put(value, c.Filters())
		if err := presets.Save(m.presetsPath, m.presets); err != nil {
			m.setFlash("save preset: "+err.Error(), true)
			return
		}
		m.setFlash("saved preset "+value, false)

	case promptLoadPreset:
		preds, ctxLines, err := m.presets.Lookup(value)
		if err != nil {
			m.setFlash(err.Error(), true)
			return
		}
		c.ApplyPreset(preds, ctxLines)
		m.setFlash("loaded preset "+value, false)
	}
}

// report shows err in the status bar, or ok when err is nil and ok is set.
func (m *Model) report(err error, ok string) {
	switch {
	case err == nil:
		if ok != "" {
			m.setFlash(ok, false)
		}
	case errors.Is(err, tail.ErrFieldMissing), errors.Is(err, tail.ErrNoSelection), errors.Is(err, tail.ErrNoSearch):
		m.setFlash(err.Error(), true)
	default:
		m.log.WithError(err).Warn("action failed")
		m.setFlash(err.Error(), true)
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashIsErr = isErr
}
