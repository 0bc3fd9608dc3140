package tail

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/five82/logtrail/internal/engine"
	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/logentry"
	"github.com/five82/logtrail/internal/tailsource"
)

const (
	DefaultBackgroundInterval = 100 * time.Millisecond
	DefaultTailInterval       = 50 * time.Millisecond
	DefaultScrollThrottle     = 50 * time.Millisecond
)

var (
	// ErrNoFileOpen is returned by operations that need a loaded file.
	ErrNoFileOpen = errors.New("no log file is open")
	// ErrNoSelection is returned when an action needs a selected entry.
	ErrNoSelection = errors.New("no entry selected")
	// ErrFieldMissing is returned when the selected entry lacks the field a
	// contextual filter is built from.
	ErrFieldMissing = errors.New("selected entry has no such field")
	// ErrNoSearch is returned when promoting without an active search.
	ErrNoSearch = errors.New("no active search")
)

// PollLoop runs the background poller. Attach replaces any previous source
// and returns the generation stamped on the batches it will produce.
type PollLoop interface {
	Attach(src *tailsource.Source) uint64
	Detach()
	SetInterval(d time.Duration)
}

// State is the tailing state shown to the renderer.
type State struct {
	LastReadPosition  int64
	PollInterval      time.Duration
	IsTailing         bool
	AutoScrollEnabled bool
	LastAutoScrollAt  time.Time
}

// Options configure a Controller. Zero durations use the package defaults.
type Options struct {
	Filters            *filter.Store
	Loop               PollLoop
	BackgroundInterval time.Duration
	TailInterval       time.Duration
	ScrollThrottle     time.Duration
	InitialLines       int
	Now                func() time.Time
	Logger             logrus.FieldLogger
}

// Controller owns the entries of the open file and everything derived from
// them: the filtered view, the selection and scroll position, and the
// tailing state machine. It is not safe for concurrent use; batches from the
// poller must be handed to HandleBatch on the owning goroutine.
type Controller struct {
	filters *filter.Store
	engine  *engine.Engine
	loop    PollLoop
	log     logrus.FieldLogger
	now     func() time.Time
	limiter *rate.Limiter

	backgroundInterval time.Duration
	tailInterval       time.Duration
	initialLines       int

	path  string
	open  bool
	gen   uint64
	state State

	pendingScroll bool
	selected      int
	offset        int
	height        int

	search      string
	searchCount int
	searchAt    uint64
}

// New builds a controller with no file open.
func New(opts Options) *Controller {
	filters := opts.Filters
	if filters == nil {
		filters = filter.NewStore(filter.DefaultMaxContext)
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	background := opts.BackgroundInterval
	if background <= 0 {
		background = DefaultBackgroundInterval
	}
	fast := opts.TailInterval
	if fast <= 0 {
		fast = DefaultTailInterval
	}
	throttle := opts.ScrollThrottle
	if throttle <= 0 {
		throttle = DefaultScrollThrottle
	}

	return &Controller{
		filters:            filters,
		engine:             engine.New(filters),
		loop:               opts.Loop,
		log:                log,
		now:                now,
		limiter:            rate.NewLimiter(rate.Every(throttle), 1),
		backgroundInterval: background,
		tailInterval:       fast,
		initialLines:       opts.InitialLines,
		selected:           -1,
		height:             1,
	}
}

// Open loads path and starts background polling from the end of what was
// read. A previously open file is closed first; filters are kept.
func (c *Controller) Open(path string) error {
	snap, err := tailsource.Load(path, c.initialLines)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	c.Close()
	entries := parseLines(snap.Lines)
	if _, err := c.engine.ApplyNewEntries(entries); err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	c.path = path
	c.open = true
	c.state = State{
		LastReadPosition: snap.Offset,
		PollInterval:     c.backgroundInterval,
	}
	c.limiter = rate.NewLimiter(c.limiter.Limit(), 1)
	c.selected = c.engine.View().Len() - 1
	c.reveal()

	src := tailsource.OpenAt(path, snap.Offset, snap.NextLine)
	if c.loop != nil {
		c.gen = c.loop.Attach(src)
		c.loop.SetInterval(c.backgroundInterval)
	}

	c.log.WithFields(logrus.Fields{
		"path":   path,
		"lines":  len(entries),
		"offset": snap.Offset,
	}).Info("opened log")
	return nil
}

// Reload discards everything ingested and reads the file again.
func (c *Controller) Reload() error {
	if !c.open {
		return ErrNoFileOpen
	}
	return c.Open(c.path)
}

// Close stops polling and drops all entries.
func (c *Controller) Close() {
	if c.open && c.loop != nil {
		c.loop.Detach()
	}
	c.engine.Reset()
	c.open = false
	c.state = State{}
	c.pendingScroll = false
	c.selected = -1
	c.offset = 0
	c.clearSearch()
}

func (c *Controller) IsOpen() bool { return c.open }
func (c *Controller) Path() string { return c.path }
func (c *Controller) State() State { return c.state }
func (c *Controller) Generation() uint64 { return c.gen }
func (c *Controller) Filters() *filter.Store { return c.filters }
func (c *Controller) View() *engine.View { return c.engine.View() }
func (c *Controller) Store() *engine.LogStore { return c.engine.Store() }
func (c *Controller) Rebuilds() int { return c.engine.Rebuilds() }
func (c *Controller) Version() uint64 { return c.engine.Version() }
func (c *Controller) Selected() int { return c.selected }
func (c *Controller) ScrollOffset() int { return c.offset }
func (c *Controller) HasPendingAutoScroll() bool { return c.pendingScroll }

// SelectedEntry returns the entry under the cursor.
func (c *Controller) SelectedEntry() (logentry.Entry, bool) {
	v := c.engine.View()
	if c.selected < 0 || c.selected >= v.Len() {
		return logentry.Entry{}, false
	}
	return v.At(c.selected), true
}

// Visible returns the entries inside the scroll window.
func (c *Controller) Visible() []logentry.Entry {
	entries := c.engine.View().Entries()
	if c.offset >= len(entries) {
		return nil
	}
	return entries[c.offset:min(len(entries), c.offset+c.height)]
}

// SetViewportHeight tells the controller how many rows the renderer shows.
func (c *Controller) SetViewportHeight(rows int) {
	c.height = max(1, rows)
	if c.state.AutoScrollEnabled {
		c.scrollToEnd(c.now())
		return
	}
	c.reveal()
}

// StartTailing follows the end of the file until the user navigates.
func (c *Controller) StartTailing() error {
	if !c.open {
		return fmt.Errorf("start tailing: %w", ErrNoFileOpen)
	}
	c.state.IsTailing = true
	c.state.AutoScrollEnabled = true
	c.state.PollInterval = c.tailInterval
	if c.loop != nil {
		c.loop.SetInterval(c.tailInterval)
	}
	c.scrollToEnd(c.now())
	c.log.WithField("path", c.path).Debug("tailing started")
	return nil
}

// StopTailing leaves tailing mode. Polling continues at the background rate
// and any auto-scroll still waiting on the throttle is dropped.
func (c *Controller) StopTailing() {
	if !c.state.IsTailing && !c.state.AutoScrollEnabled {
		return
	}
	c.state.IsTailing = false
	c.state.AutoScrollEnabled = false
	c.pendingScroll = false
	c.state.PollInterval = c.backgroundInterval
	if c.loop != nil {
		c.loop.SetInterval(c.backgroundInterval)
	}
	c.log.WithField("path", c.path).Debug("tailing stopped")
}

// ToggleTailing switches between the two tailing states.
func (c *Controller) ToggleTailing() error {
	if c.state.IsTailing {
		c.StopTailing()
		return nil
	}
	return c.StartTailing()
}

// HandleBatch ingests lines produced by the poller. Batches from an earlier
// attachment are ignored. It returns how many entries entered the view.
func (c *Controller) HandleBatch(b tailsource.Batch) int {
	if !c.open || b.Gen != c.gen {
		return 0
	}
	if b.Offset > c.state.LastReadPosition {
		c.state.LastReadPosition = b.Offset
	}

	entries := parseLines(b.Lines)
	if len(entries) == 0 {
		return 0
	}

	anchor := c.selectedLine()
	added, err := c.engine.ApplyNewEntries(entries)
	if err != nil {
		c.log.WithError(err).WithField("path", c.path).Warn("dropped batch")
		return 0
	}

	if c.state.AutoScrollEnabled {
		now := c.now()
		if c.limiter.AllowN(now, 1) {
			c.scrollToEnd(now)
		} else {
			c.pendingScroll = true
		}
		return added
	}
	if added > 0 {
		c.restoreSelection(anchor)
	}
	return added
}

// Tick flushes an auto-scroll that was deferred by the throttle.
func (c *Controller) Tick(now time.Time) {
	if !c.pendingScroll || !c.state.AutoScrollEnabled {
		return
	}
	if c.limiter.AllowN(now, 1) {
		c.scrollToEnd(now)
	}
}

func (c *Controller) scrollToEnd(now time.Time) {
	n := c.engine.View().Len()
	c.selected = n - 1
	c.offset = max(0, n-c.height)
	c.pendingScroll = false
	c.state.LastAutoScrollAt = now
}

func (c *Controller) selectedLine() int {
	if e, ok := c.SelectedEntry(); ok {
		return e.LineNumber
	}
	return 0
}

func (c *Controller) restoreSelection(lineNumber int) {
	c.selected = c.engine.View().Nearest(lineNumber)
	c.reveal()
}

// reveal clamps the scroll offset and brings the selection into view.
func (c *Controller) reveal() {
	n := c.engine.View().Len()
	if n == 0 {
		c.selected = -1
		c.offset = 0
		return
	}
	c.selected = max(0, min(c.selected, n-1))
	if c.selected < c.offset {
		c.offset = c.selected
	}
	if c.selected >= c.offset+c.height {
		c.offset = c.selected - c.height + 1
	}
	c.offset = max(0, min(c.offset, n-c.height))
}

func parseLines(lines []tailsource.Line) []logentry.Entry {
	entries := make([]logentry.Entry, 0, len(lines))
	for _, l := range lines {
		if l.Text == "" {
			continue
		}
		entries = append(entries, logentry.Parse(l.Text, l.Number))
	}
	return entries
}
