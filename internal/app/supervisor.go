package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/logtrail/internal/state"
	"github.com/five82/logtrail/internal/tailsource"
)

// SupervisorOptions configure a Supervisor.
type SupervisorOptions struct {
	Health   *state.Store
	Interval time.Duration
	Watch    bool
	Buffer   int
	Logger   logrus.FieldLogger
}

// Supervisor owns the goroutines polling the currently open file. Each
// Attach replaces them and bumps the generation stamped on every batch, so
// the consumer can discard batches that were in flight during the switch.
type Supervisor struct {
	parent  context.Context
	health  *state.Store
	watch   bool
	log     logrus.FieldLogger
	batches chan tailsource.Batch

	mu       sync.Mutex
	gen      uint64
	interval time.Duration
	poller   *Poller
	cancel   context.CancelFunc
	group    *errgroup.Group
}

// NewSupervisor returns a supervisor whose pollers stop when ctx ends.
func NewSupervisor(ctx context.Context, opts SupervisorOptions) *Supervisor {
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	health := opts.Health
	if health == nil {
		health = &state.Store{}
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = 16
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Supervisor{
		parent:   ctx,
		health:   health,
		watch:    opts.Watch,
		log:      log,
		batches:  make(chan tailsource.Batch, buffer),
		interval: interval,
	}
}

// Batches delivers new lines from the attached source.
func (s *Supervisor) Batches() <-chan tailsource.Batch { return s.batches }

// Health exposes the poll health of the attached source.
func (s *Supervisor) Health() *state.Store { return s.health }

// Attach stops polling the previous source and starts on src.
func (s *Supervisor) Attach(src *tailsource.Source) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	s.health.Reset(src.Path(), src.Offset())

	ctx, cancel := context.WithCancel(s.parent)
	g, gctx := errgroup.WithContext(ctx)
	log := s.log.WithFields(logrus.Fields{"path": src.Path(), "gen": s.gen})

	var wake <-chan struct{}
	if s.watch {
		w, err := tailsource.NewWatcher(src.Path(), log)
		if err != nil {
			log.WithError(err).Warn("file watch unavailable, polling only")
		} else {
			wake = w.Changes()
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	p := newPoller(src, s.gen, s.interval, s.batches, s.health, wake, log)
	g.Go(func() error { return p.Run(gctx) })

	s.poller = p
	s.cancel = cancel
	s.group = g
	log.Debug("poller attached")
	return s.gen
}

// Detach stops polling. It blocks until the goroutines have exited.
func (s *Supervisor) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// SetInterval changes the cadence of the attached poller and of future ones.
func (s *Supervisor) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
	if s.poller != nil {
		s.poller.SetInterval(d)
	}
}

// Close stops polling.
func (s *Supervisor) Close() error {
	s.Detach()
	return nil
}

func (s *Supervisor) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	if err := s.group.Wait(); err != nil {
		s.log.WithError(err).Warn("poller exited with error")
	}
	s.poller = nil
	s.cancel = nil
	s.group = nil
}
