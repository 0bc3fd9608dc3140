// Package stream prints a filtered log to a writer without the interactive
// viewer. It shares the parser and filter set with the TUI and prints
// context around matches the way grep -n -C does.
package stream
