// Package tailsource reads log files incrementally.
//
// # Overview
//
// A Source is a byte cursor into one file. Load reads what is already there
// (optionally just the last N lines, using a ring buffer so memory stays
// O(N) regardless of file size) and reports the offset to resume from. Poll
// then returns only the lines appended since the previous successful poll.
//
// # Partial Lines
//
// The cursor only ever advances past a '\n'. A writer that has flushed half a
// line is not observed until the terminator arrives, so a line is never split
// across two entries. Trailing '\r' is stripped.
//
// # Line Numbers
//
// Lines carry their physical 1-based position in the file. Load counts every
// line even when it keeps only the tail, so numbering continues correctly
// into subsequent polls.
//
// # Errors
//
//   - ErrFileNotFound / ErrFileUnreadable: returned by Load and Open. Fatal
//     to opening the file.
//   - ErrTransientRead: returned by Poll when the file shrank, vanished or
//     could not be read. The cursor does not move, so nothing is lost if the
//     file comes back. Callers decide how many consecutive failures to
//     tolerate before telling the user.
//
// # Change Notification
//
// Watcher wraps fsnotify to wake the poller early when the file changes. It
// watches the parent directory so log rotation by rename-and-recreate keeps
// producing events. Notifications are coalesced into a channel of capacity
// one; the poller still reads everything because Poll is offset based.
package tailsource
