package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/logtrail/internal/state"
	"github.com/five82/logtrail/internal/tailsource"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	maxBackoff          = 2 * time.Second
)

// Poller reads new lines from one source on a timer and hands them to the
// consumer as batches. A filesystem wake-up triggers an immediate read.
type Poller struct {
	src       *tailsource.Source
	gen       uint64
	health    *state.Store
	out       chan<- tailsource.Batch
	wake      <-chan struct{}
	intervals chan time.Duration
	interval  time.Duration
	log       logrus.FieldLogger
}

func newPoller(src *tailsource.Source, gen uint64, interval time.Duration, out chan<- tailsource.Batch, health *state.Store, wake <-chan struct{}, log logrus.FieldLogger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		src:       src,
		gen:       gen,
		health:    health,
		out:       out,
		wake:      wake,
		intervals: make(chan time.Duration, 1),
		interval:  interval,
		log:       log,
	}
}

// SetInterval changes the cadence. The newest value wins if the poller has
// not picked up the previous one yet.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-p.intervals:
	default:
	}
	p.intervals <- d
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-p.intervals:
			p.interval = d
			timer.Reset(d)
			continue
		case <-p.wake:
		case <-timer.C:
		}

		next, ok := p.poll(ctx, &failures)
		if !ok {
			return nil
		}
		timer.Reset(next)
	}
}

// poll performs one read and returns the delay before the next one. It
// reports false when ctx ended while a batch was waiting to be delivered.
func (p *Poller) poll(ctx context.Context, failures *int) (time.Duration, bool) {
	lines, err := p.src.Poll()
	if p.health != nil {
		p.health.Update(len(lines), p.src.Offset(), err)
	}
	if err != nil {
		*failures++
		entry := p.log.WithError(err).WithField("failures", *failures)
		if *failures == 1 {
			entry.Warn("poll failed")
		} else {
			entry.Debug("poll failed")
		}
		return calculateBackoff(*failures, p.interval), true
	}
	if *failures > 0 {
		p.log.WithField("failures", *failures).Info("poll recovered")
		*failures = 0
	}
	if len(lines) == 0 {
		return p.interval, true
	}

	batch := tailsource.Batch{Gen: p.gen, Lines: lines, Offset: p.src.Offset()}
	select {
	case p.out <- batch:
		return p.interval, true
	case <-ctx.Done():
		return 0, false
	}
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff. Intervals already above the cap are left alone.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
