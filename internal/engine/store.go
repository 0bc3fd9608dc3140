package engine

import (
	"sort"

	"github.com/five82/logtrail/internal/logentry"
)

// LogStore is the append-only sequence of every entry ingested in a session.
type LogStore struct {
	entries []logentry.Entry
}

func (s *LogStore) Len() int { return len(s.entries) }

func (s *LogStore) At(i int) logentry.Entry { return s.entries[i] }

// Entries exposes the backing slice. Callers must not modify it.
func (s *LogStore) Entries() []logentry.Entry { return s.entries }

// LastLineNumber returns 0 for an empty store.
func (s *LogStore) LastLineNumber() int {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].LineNumber
}

// IndexOf finds the entry with the given line number.
func (s *LogStore) IndexOf(lineNumber int) (int, bool) {
	return searchLine(s.entries, lineNumber)
}

func (s *LogStore) append(entries []logentry.Entry) {
	s.entries = append(s.entries, entries...)
}

func (s *LogStore) reset() {
	s.entries = nil
}

// searchLine binary-searches a slice ordered by line number.
func searchLine(entries []logentry.Entry, lineNumber int) (int, bool) {
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].LineNumber >= lineNumber
	})
	return i, i < len(entries) && entries[i].LineNumber == lineNumber
}
