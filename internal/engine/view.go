package engine

import (
	"github.com/five82/logtrail/internal/logentry"
)

// View is the filtered, context-expanded projection of a LogStore. Entries are
// kept in ascending line-number order with no duplicates.
type View struct {
	entries []logentry.Entry
	present map[int]struct{}
	matches map[int]struct{}
}

func newView() View {
	return View{
		present: make(map[int]struct{}),
		matches: make(map[int]struct{}),
	}
}

func (v *View) Len() int { return len(v.entries) }

func (v *View) At(i int) logentry.Entry { return v.entries[i] }

// Entries exposes the backing slice. Callers must not modify it.
func (v *View) Entries() []logentry.Entry { return v.entries }

// Contains reports whether the line is shown, as a match or as context.
func (v *View) Contains(lineNumber int) bool {
	_, ok := v.present[lineNumber]
	return ok
}

// IsMatch reports whether the line satisfied the filters itself rather than
// being shown as context.
func (v *View) IsMatch(lineNumber int) bool {
	_, ok := v.matches[lineNumber]
	return ok
}

func (v *View) MatchCount() int { return len(v.matches) }

// LineNumbers returns the shown line numbers in order.
func (v *View) LineNumbers() []int {
	out := make([]int, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.LineNumber
	}
	return out
}

// IndexOf finds the position of a line in the view.
func (v *View) IndexOf(lineNumber int) (int, bool) {
	return searchLine(v.entries, lineNumber)
}

// Nearest returns the index of the line, or of the closest shown line when it
// is absent. It returns -1 for an empty view.
func (v *View) Nearest(lineNumber int) int {
	if len(v.entries) == 0 {
		return -1
	}
	i, found := searchLine(v.entries, lineNumber)
	if found {
		return i
	}
	if i == len(v.entries) {
		return i - 1
	}
	if i > 0 && lineNumber-v.entries[i-1].LineNumber <= v.entries[i].LineNumber-lineNumber {
		return i - 1
	}
	return i
}

// merge folds sorted, not-yet-present entries into the view. Only the suffix
// that overlaps the incoming range is rewritten.
func (v *View) merge(incoming []logentry.Entry) {
	if len(incoming) == 0 {
		return
	}
	pos, _ := searchLine(v.entries, incoming[0].LineNumber)
	if pos == len(v.entries) {
		v.entries = append(v.entries, incoming...)
		return
	}

	tail := make([]logentry.Entry, len(v.entries)-pos)
	copy(tail, v.entries[pos:])
	v.entries = v.entries[:pos]

	i, j := 0, 0
	for i < len(tail) && j < len(incoming) {
		if tail[i].LineNumber < incoming[j].LineNumber {
			v.entries = append(v.entries, tail[i])
			i++
		} else {
			v.entries = append(v.entries, incoming[j])
			j++
		}
	}
	v.entries = append(v.entries, tail[i:]...)
	v.entries = append(v.entries, incoming[j:]...)
}
