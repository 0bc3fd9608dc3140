package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/five82/logtrail/internal/logentry"
)

// ErrOutOfOrder is returned when a batch would break line-number ordering.
var ErrOutOfOrder = errors.New("entries out of order")

// Filter is the predicate and context configuration the engine evaluates.
// *filter.Store satisfies it.
type Filter interface {
	Matches(logentry.Entry) bool
	ContextLines() int
}

// Engine owns the LogStore and keeps its View consistent with the current
// Filter. Appends cost time proportional to the new entries; RebuildAll walks
// the whole store and is reserved for settings changes.
type Engine struct {
	filter    Filter
	store     LogStore
	view      View
	lastMatch int
	rebuilds  int
	version   uint64
}

// New returns an empty engine evaluating f.
func New(f Filter) *Engine {
	return &Engine{
		filter:    f,
		view:      newView(),
		lastMatch: -1,
	}
}

func (e *Engine) Store() *LogStore { return &e.store }

func (e *Engine) View() *View { return &e.view }

// Rebuilds counts RebuildAll calls since the engine was created.
func (e *Engine) Rebuilds() int { return e.rebuilds }

// Version changes whenever the view changes.
func (e *Engine) Version() uint64 { return e.version }

// ApplyNewEntries appends entries to the store and extends the view with any
// new matches and their context. It returns how many entries entered the view.
func (e *Engine) ApplyNewEntries(entries []logentry.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	last := e.store.LastLineNumber()
	for _, en := range entries {
		if en.LineNumber <= last {
			return 0, fmt.Errorf("%w: line %d after line %d", ErrOutOfOrder, en.LineNumber, last)
		}
		last = en.LineNumber
	}

	start := e.store.Len()
	e.store.append(entries)

	var inserted []logentry.Entry
	for idx := start; idx < e.store.Len(); idx++ {
		inserted = e.consider(idx, inserted)
	}
	e.commit(inserted)
	return len(inserted), nil
}

// RebuildAll recomputes the view from the whole store.
func (e *Engine) RebuildAll() {
	e.rebuilds++
	e.view = newView()
	e.lastMatch = -1

	var inserted []logentry.Entry
	for idx := 0; idx < e.store.Len(); idx++ {
		inserted = e.consider(idx, inserted)
	}
	e.commit(inserted)
	e.version++
}

// Reset discards the store and view, as on close or reload.
func (e *Engine) Reset() {
	e.store.reset()
	e.view = newView()
	e.lastMatch = -1
	e.version++
}

// consider evaluates the entry at idx. A match contributes the symmetric
// window clipped to what the store holds now; an entry that arrives later but
// still falls inside the last match's window is picked up as trailing context.
func (e *Engine) consider(idx int, inserted []logentry.Entry) []logentry.Entry {
	en := e.store.At(idx)
	context := e.filter.ContextLines()

	if e.filter.Matches(en) {
		e.view.matches[en.LineNumber] = struct{}{}
		lo := max(0, idx-context)
		hi := min(e.store.Len()-1, idx+context)
		for j := lo; j <= hi; j++ {
			inserted = e.include(e.store.At(j), inserted)
		}
		e.lastMatch = idx
		return inserted
	}

	if e.lastMatch >= 0 && idx-e.lastMatch <= context {
		inserted = e.include(en, inserted)
	}
	return inserted
}

func (e *Engine) include(en logentry.Entry, inserted []logentry.Entry) []logentry.Entry {
	if _, ok := e.view.present[en.LineNumber]; ok {
		return inserted
	}
	e.view.present[en.LineNumber] = struct{}{}
	return append(inserted, en)
}

func (e *Engine) commit(inserted []logentry.Entry) {
	if len(inserted) == 0 {
		return
	}
	slices.SortFunc(inserted, func(a, b logentry.Entry) int {
		return a.LineNumber - b.LineNumber
	})
	e.view.merge(inserted)
	e.version++
}
