package tail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/tailsource"
)

type fakeLoop struct {
	src       *tailsource.Source
	gen       uint64
	intervals []time.Duration
	detached  int
}

func (f *fakeLoop) Attach(src *tailsource.Source) uint64 {
	f.src = src
	f.gen++
	return f.gen
}

func (f *fakeLoop) Detach() { f.detached++ }

func (f *fakeLoop) SetInterval(d time.Duration) { f.intervals = append(f.intervals, d) }

func (f *fakeLoop) lastInterval() time.Duration {
	if len(f.intervals) == 0 {
		return 0
	}
	return f.intervals[len(f.intervals)-1]
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	t     *testing.T
	path  string
	loop  *fakeLoop
	clock *clock
	c     *Controller
}

func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.log")
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h := &harness{
		t:     t,
		path:  path,
		loop:  &fakeLoop{},
		clock: &clock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
	}
	h.c = New(Options{
		Filters: filter.NewStore(filter.DefaultMaxContext),
		Loop:    h.loop,
		Now:     h.clock.now,
	})
	h.c.SetViewportHeight(3)
	return h
}

func (h *harness) open() {
	h.t.Helper()
	require.NoError(h.t, h.c.Open(h.path))
}

func (h *harness) append(lines ...string) {
	h.t.Helper()
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(h.t, err)
	defer f.Close()
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	require.NoError(h.t, err)
}

// poll runs one poller iteration synchronously.
func (h *harness) poll() int {
	h.t.Helper()
	lines, err := h.loop.src.Poll()
	require.NoError(h.t, err)
	return h.c.HandleBatch(tailsource.Batch{Gen: h.loop.gen, Lines: lines, Offset: h.loop.src.Offset()})
}

func numbered(from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("LogTest: line %d", i))
	}
	return out
}

func TestStartTailingRequiresOpenFile(t *testing.T) {
	c := New(Options{})
	err := c.StartTailing()
	require.ErrorIs(t, err, ErrNoFileOpen)
	assert.False(t, c.State().IsTailing)
}

func TestOpenMissingFile(t *testing.T) {
	c := New(Options{})
	err := c.Open(filepath.Join(t.TempDir(), "nope.log"))
	require.ErrorIs(t, err, tailsource.ErrFileNotFound)
	assert.False(t, c.IsOpen())
}

func TestTailingFollowsAppendedLines(t *testing.T) {
	h := newHarness(t, numbered(1, 3)...)
	h.open()
	require.NoError(t, h.c.StartTailing())

	h.append(numbered(4, 5)...)
	h.poll()

	assert.Equal(t, 5, h.c.View().Len())
	assert.Equal(t, 4, h.c.Selected())
	assert.True(t, h.c.State().IsTailing)
	assert.True(t, h.c.State().AutoScrollEnabled)
	assert.Equal(t, 2, h.c.ScrollOffset())
	assert.Equal(t, DefaultTailInterval, h.loop.lastInterval())
}

func TestStopTailingRelaxesInterval(t *testing.T) {
	h := newHarness(t, numbered(1, 3)...)
	h.open()
	require.NoError(t, h.c.StartTailing())
	h.c.StopTailing()

	st := h.c.State()
	assert.False(t, st.IsTailing)
	assert.False(t, st.AutoScrollEnabled)
	assert.Equal(t, DefaultBackgroundInterval, st.PollInterval)
	assert.Equal(t, DefaultBackgroundInterval, h.loop.lastInterval())

	h.append(numbered(4, 6)...)
	h.poll()
	assert.Equal(t, 6, h.c.View().Len(), "background polling keeps ingesting")
	assert.Equal(t, 2, h.c.Selected(), "selection stays put when not tailing")
}

func TestNavigationCancelsTailing(t *testing.T) {
	moves := map[string]func(c *Controller){
		"up":             func(c *Controller) { c.MoveUp(1) },
		"down":           func(c *Controller) { c.MoveDown(1) },
		"page up":        func(c *Controller) { c.PageUp() },
		"page down":      func(c *Controller) { c.PageDown() },
		"half page up":   func(c *Controller) { c.HalfPageUp() },
		"half page down": func(c *Controller) { c.HalfPageDown() },
		"top":            func(c *Controller) { c.Top() },
		"bottom":         func(c *Controller) { c.Bottom() },
		"jump":           func(c *Controller) { _ = c.JumpToLine(2) },
	}
	for name, move := range moves {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, numbered(1, 10)...)
			h.open()
			require.NoError(t, h.c.StartTailing())

			move(h.c)
			assert.False(t, h.c.State().IsTailing)
			assert.False(t, h.c.State().AutoScrollEnabled)

			h.append(numbered(11, 12)...)
			h.poll()
			assert.False(t, h.c.State().IsTailing, "tailing is never resumed by new data")
			assert.NotEqual(t, h.c.View().Len()-1, h.c.Selected())
		})
	}
}

func TestAutoScrollIsThrottled(t *testing.T) {
	h := newHarness(t, numbered(1, 3)...)
	h.open()
	require.NoError(t, h.c.StartTailing())

	h.append(numbered(4, 4)...)
	h.poll()
	require.Equal(t, 3, h.c.Selected())

	h.clock.advance(10 * time.Millisecond)
	h.append(numbered(5, 5)...)
	h.poll()
	assert.Equal(t, 5, h.c.View().Len(), "ingestion is never throttled")
	assert.Equal(t, 3, h.c.Selected(), "scroll deferred inside the throttle window")
	assert.True(t, h.c.HasPendingAutoScroll())

	h.clock.advance(60 * time.Millisecond)
	h.c.Tick(h.clock.now())
	assert.Equal(t, 4, h.c.Selected())
	assert.False(t, h.c.HasPendingAutoScroll())
	assert.Equal(t, h.clock.now(), h.c.State().LastAutoScrollAt)
}

func TestStopTailingDropsPendingScroll(t *testing.T) {
	h := newHarness(t, numbered(1, 3)...)
	h.open()
	require.NoError(t, h.c.StartTailing())

	h.append(numbered(4, 4)...)
	h.poll()
	h.append(numbered(5, 5)...)
	h.poll()
	require.True(t, h.c.HasPendingAutoScroll())

	h.c.StopTailing()
	assert.False(t, h.c.HasPendingAutoScroll())

	h.clock.advance(time.Second)
	h.c.Tick(h.clock.now())
	assert.Equal(t, 3, h.c.Selected())
}

func TestStaleBatchesAreIgnored(t *testing.T) {
	h := newHarness(t, numbered(1, 3)...)
	h.open()
	oldGen := h.loop.gen
	require.NoError(t, h.c.Reload())
	require.Equal(t, 1, h.loop.detached)

	added := h.c.HandleBatch(tailsource.Batch{
		Gen:   oldGen,
		Lines: []tailsource.Line{{Number: 4, Text: "LogTest: stale"}},
	})
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, h.c.View().Len())
}

func TestEmptyLinesAreSkipped(t *testing.T) {
	h := newHarness(t, "LogTest: one", "", "LogTest: three")
	h.open()
	assert.Equal(t, []int{1, 3}, h.c.View().LineNumbers())
}

func TestFilterChangeRebuildsOnce(t *testing.T) {
	h := newHarness(t,
		"[t][  1]LogNet: Warning: a",
		"[t][  2]LogNet: Error: b",
		"[t][  3]LogAudio: Error: c",
		"[t][  4]LogNet: Display: d",
	)
	h.open()
	before := h.c.Rebuilds()

	h.c.AddFilter(filter.Level("Error"))
	assert.Equal(t, before+1, h.c.Rebuilds())
	assert.Equal(t, []int{2, 3}, h.c.View().LineNumbers())

	assert.True(t, h.c.IncreaseContext())
	assert.Equal(t, before+2, h.c.Rebuilds())
	assert.Equal(t, []int{1, 2, 3, 4}, h.c.View().LineNumbers())
	assert.Equal(t, 2, h.c.View().MatchCount())

	assert.False(t, h.c.RemoveFilter(filter.ID(999)))
	assert.False(t, h.c.SetContextLines(1))
	assert.Equal(t, before+2, h.c.Rebuilds(), "no-op changes do not rebuild")

	h.append("[t][  5]LogNet: Display: e")
	h.poll()
	assert.Equal(t, before+2, h.c.Rebuilds(), "appends never rebuild")
}

func TestRebuildPreservesSelection(t *testing.T) {
	h := newHarness(t,
		"[t][  1]LogNet: Warning: a",
		"[t][  2]LogNet: Error: b",
		"[t][  3]LogAudio: Error: c",
		"[t][  4]LogNet: Display: d",
	)
	h.open()
	require.NoError(t, h.c.JumpToLine(3))

	h.c.AddFilter(filter.Level("Error"))
	e, ok := h.c.SelectedEntry()
	require.True(t, ok)
	assert.Equal(t, 3, e.LineNumber)
}

func TestSearchAndPromote(t *testing.T) {
	h := newHarness(t,
		"LogNet: connect ok",
		"LogNet: timeout talking to host",
		"LogAudio: buffer ok",
		"LogNet: second timeout",
	)
	h.open()
	require.NoError(t, h.c.StartTailing())

	require.True(t, h.c.Search("TIMEOUT"))
	assert.False(t, h.c.State().IsTailing, "search navigation cancels tailing")
	assert.Equal(t, 3, h.c.Selected(), "first hit at or after the cursor")
	assert.Equal(t, 2, h.c.SearchHits())

	require.True(t, h.c.NextMatch())
	assert.Equal(t, 1, h.c.Selected(), "search wraps")
	require.True(t, h.c.NextMatch())
	assert.Equal(t, 3, h.c.Selected())
	require.True(t, h.c.PrevMatch())
	assert.Equal(t, 1, h.c.Selected())
	assert.False(t, h.c.Search("no such text"))

	require.NoError(t, h.c.PromoteSearch())
	assert.Equal(t, "", h.c.SearchQuery())
	assert.Equal(t, filter.ModeExpression, h.c.Filters().Mode())
	assert.Equal(t, []int{2, 4}, h.c.View().LineNumbers())
	assert.ErrorIs(t, h.c.PromoteSearch(), ErrNoSearch)
}

func TestNarrowToSelected(t *testing.T) {
	h := newHarness(t,
		"[2024.01.15-10.00.00:000][ 10]LogNet: Warning: a",
		"[2024.01.15-10.00.01:000][ 11]LogAudio: Error: b",
		"LogNet: no level here",
		"[2024.01.15-10.00.03:000][ 13]LogNet: Error: d",
	)
	h.open()

	require.NoError(t, h.c.JumpToLine(1))
	require.NoError(t, h.c.NarrowToSelected(filter.LoggerEquals))
	assert.Equal(t, []int{1, 3, 4}, h.c.View().LineNumbers())

	require.NoError(t, h.c.JumpToLine(3))
	err := h.c.NarrowToSelected(filter.LevelEquals)
	assert.ErrorIs(t, err, ErrFieldMissing)

	require.NoError(t, h.c.JumpToLine(1))
	require.NoError(t, h.c.NarrowToSelected(filter.FrameAfter))
	assert.Equal(t, []int{4}, h.c.View().LineNumbers())

	assert.True(t, h.c.PopExpression())
	assert.Equal(t, []int{1, 3, 4}, h.c.View().LineNumbers())
	assert.True(t, h.c.ClearFilters())
	assert.Equal(t, 4, h.c.View().Len())
}

func TestJumpToLineCentresSelection(t *testing.T) {
	h := newHarness(t, numbered(1, 20)...)
	h.open()
	require.NoError(t, h.c.JumpToLine(10))
	assert.Equal(t, 9, h.c.Selected())
	assert.Equal(t, 8, h.c.ScrollOffset())
	assert.Len(t, h.c.Visible(), 3)
}

func TestCloseResetsState(t *testing.T) {
	h := newHarness(t, numbered(1, 3)...)
	h.open()
	require.NoError(t, h.c.StartTailing())
	h.c.Close()

	assert.False(t, h.c.IsOpen())
	assert.Equal(t, State{}, h.c.State())
	assert.Equal(t, 0, h.c.Store().Len())
	assert.Equal(t, -1, h.c.Selected())
	assert.ErrorIs(t, h.c.Reload(), ErrNoFileOpen)
}
