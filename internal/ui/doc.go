// Package ui provides the terminal user interface for logtrail.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds a *tail.Controller, which owns
// the entries, the filtered view, the selection and the tailing state; the
// model only translates keys into controller calls and renders what the
// controller exposes. All controller calls happen inside Update, so the
// controller is only ever touched from the Bubble Tea goroutine.
//
// # Package Structure
//
//   - app.go: Options, Model, Init/Update/View, messages, commands and Run
//   - input.go: Key dispatch and the footer prompt (search, filters, jump, presets)
//   - logs.go: Log pane, status bar and footer rendering
//   - help.go: Help overlay built from the key map
//   - keys.go: Key bindings (bubbles/key) and their help text
//   - theme.go: Color themes and Lipgloss styles, including per-level colors
//   - style_helpers.go: Background-preserving render helpers
//
// # Event Flow
//
//  1. Run() builds the model and starts the program on the caller's context
//  2. waitForBatch blocks on the poller's channel and delivers each batch as
//     a batchMsg; the controller drops batches from a previous file
//  3. tickMsg fires on a short interval to flush auto-scrolls deferred by the
//     throttle and to refresh the poll health snapshot
//  4. Keys either call the controller directly or open the footer prompt
//
// # Rendering
//
// Rows whose entry matched the filters are drawn normally; rows that are only
// shown as context around a match are dimmed. The status bar shows LIVE,
// STATIC or STALLED, the file name, shown/total line counts, the effective
// filters, the context setting, the active search and any read error.
//
// # Key Bindings
//
//   - j/k, pgup/pgdown, ctrl+u/ctrl+d, g/G: Move (cancels tailing)
//   - f or Space: Toggle tailing
//   - /, n/N, p: Search, next/previous hit, promote search to a filter
//   - a: Add a toggle filter; 1-9 toggle filters on and off; x clears all
//   - &, l, L, t, F: Narrow by typed expression, logger, level, time, frame
//   - Backspace: Undo the last narrowing step
//   - +/-: More/less context around matches
//   - s/o: Save/load a named filter preset
//   - :: Jump to a line number
//   - r: Reload the file
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Quit
package ui
