// Package state shares poll health between the poller goroutine and the UI.
//
// # Overview
//
// The log entries themselves never cross goroutines through this package:
// they travel as batches over a channel and are applied on the UI side. What
// the poller publishes here is bookkeeping about the polls themselves, so the
// status bar can tell the user when tailing has stalled.
//
//	Poller goroutine:              UI update loop:
//	┌──────────────────┐           ┌──────────────────┐
//	│ source.Poll()    │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│ send batch       │           │ render status    │
//	└──────────────────┘           └──────────────────┘
//
// # Update Semantics
//
//	// Success: counters advance, failure streak resets
//	store.Update(lines, offset, nil)
//
//	// Failure: counters kept, streak grows, error recorded
//	store.Update(0, 0, err)
//
// A failed poll is never fatal. Snapshot.IsStalled compares the streak with
// the configured stall_threshold; crossing it only changes what the UI shows.
// Polling continues and the streak resets on the next successful poll.
//
// # Concurrency Model
//
// Store uses a sync.RWMutex. Update takes the write lock, Snapshot the read
// lock. The zero value is ready to use.
package state
