// Package app provides the orchestration layer for logtrail.
//
// # Overview
//
// This package wires together configuration, logging, presets, filters, the
// tailing controller, background polling and the UI. It is the composition
// root where all dependencies are initialized and connected.
//
// # Components
//
//   - app.go: Run, NewSession and BuildFilters
//   - stream.go: Stream, the non-interactive path through the same config,
//     presets and filters
//   - supervisor.go: Owns the poller goroutines for the open file and
//     implements tail.PollLoop
//   - poller.go: Reads new lines on a timer or on a filesystem wake-up and
//     hands them over as batches
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ~/.config/logtrail/config.toml
//	       ├─────> logging.New()        Diagnostic log file
//	       ├─────> presets.Load()       Saved filter sets and theme
//	       ├─────> BuildFilters()       --preset, --filter, --context
//	       ├─────> NewSupervisor()      Poll loop owner
//	       ├─────> tail.Controller.Open Load file, attach poller
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Per attached file:
//	┌─────────────────────────────────────────┐
//	│ errgroup                                │
//	│   ├─ Watcher.Run   fsnotify → wake      │
//	│   └─ Poller.Run    timer/wake → Poll()  │
//	│          │                              │
//	│          ├─> state.Store.Update()       │
//	│          └─> Batch{Gen, Lines} → chan   │
//	└─────────────────────────────────────────┘
//
// # Generations
//
// Every Attach bumps a generation number carried by each batch. The
// controller keeps the generation it was given and ignores batches from any
// other, so lines read from a previous file never reach the new one.
//
// # Failure Handling
//
// A failed poll leaves the read position where it was. The poller retries
// with exponential backoff capped at two seconds, and the health store counts
// consecutive failures so the UI can report a stalled file.
package app
