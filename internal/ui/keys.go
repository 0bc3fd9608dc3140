package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Reload     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	JumpToLine   key.Binding

	// Tailing
	ToggleTail key.Binding

	// Search
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Promote   key.Binding

	// Filters
	AddFilter    key.Binding
	Narrow       key.Binding
	NarrowLogger key.Binding
	NarrowLevel  key.Binding
	NarrowTime   key.Binding
	NarrowFrame  key.Binding
	Widen        key.Binding
	ToggleFilter key.Binding
	ClearFilters key.Binding
	MoreContext  key.Binding
	LessContext  key.Binding
	SavePreset   key.Binding
	LoadPreset   key.Binding

	// Prompt
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload file"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		JumpToLine: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Jump to line"),
		),

		// Tailing
		ToggleTail: key.NewBinding(
			key.WithKeys("f", " "),
			key.WithHelp("f/space", "Toggle tailing"),
		),

		// Search
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		Promote: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Search to filter"),
		),

		// Filters
		AddFilter: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add filter"),
		),
		Narrow: key.NewBinding(
			key.WithKeys("&"),
			key.WithHelp("&", "Narrow by expression"),
		),
		NarrowLogger: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Only this logger"),
		),
		NarrowLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Only this level"),
		),
		NarrowTime: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "After this time"),
		),
		NarrowFrame: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "After this frame"),
		),
		Widen: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "Undo last narrow"),
		),
		ToggleFilter: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Toggle filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),
		MoreContext: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More context"),
		),
		LessContext: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Less context"),
		),
		SavePreset: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Save preset"),
		),
		LoadPreset: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Load preset"),
		),

		// Prompt
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleTail, k.Search, k.AddFilter, k.MoreContext, k.LessContext, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown, k.JumpToLine},
		{k.ToggleTail, k.Search, k.NextMatch, k.PrevMatch, k.Promote, k.Escape},
		{k.AddFilter, k.Narrow, k.NarrowLogger, k.NarrowLevel, k.NarrowTime, k.NarrowFrame, k.Widen},
		{k.ToggleFilter, k.ClearFilters, k.MoreContext, k.LessContext, k.SavePreset, k.LoadPreset},
		{k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
