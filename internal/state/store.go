package state

import (
	"fmt"
	"sync"
	"time"
)

// DefaultStallThreshold is the number of consecutive failed polls after which
// the file is reported as stalled.
const DefaultStallThreshold = 20

// Snapshot is the poll health visible to the UI.
type Snapshot struct {
	Path                string
	Offset              int64
	LinesIngested       int
	LastPoll            time.Time
	LastGrowth          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed polls
}

// IsStalled reports whether polling has failed at least threshold times in a
// row. A non-positive threshold falls back to DefaultStallThreshold.
func (s Snapshot) IsStalled(threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultStallThreshold
	}
	return s.ConsecutiveFailures >= threshold
}

// Store coordinates updates from the poller goroutine with reads from the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Reset starts tracking a newly opened file.
func (s *Store) Reset(path string, offset int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{Path: path, Offset: offset}
}

// Update records the outcome of one poll. When err is non-nil the previous
// counters are kept and the failure streak grows.
func (s *Store) Update(lines int, offset int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastPoll = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if lines > 0 {
		s.snapshot.LinesIngested += lines
		s.snapshot.LastGrowth = now
	}
	s.snapshot.Offset = offset
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
