package state

import (
	"sync"
	"time"
)

// Shared guards a State behind a reader-writer lock. The poller is the
// only writer; any number of readers may hold shared access concurrently.
// All access goes through the closure methods so the lock can never be
// left held.
type Shared struct {
	mu    sync.RWMutex
	state *State
}

// NewShared creates a Shared wrapping a fresh session state.
func NewShared(samplingInterval time.Duration) *Shared {
	return &Shared{state: New(samplingInterval)}
}

// Read runs fn with shared access. fn must not retain the *State or any
// history slice past its return.
func (s *Shared) Read(fn func(*State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Update runs fn with exclusive access, blocking all readers and any
// other writer for its duration.
func (s *Shared) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// SamplingInterval returns the configured cadence. Immutable after
// construction, so no lock is needed.
func (s *Shared) SamplingInterval() time.Duration {
	return s.state.SamplingInterval
}

// SessionStart returns the session origin. Immutable after construction.
func (s *Shared) SessionStart() time.Time {
	return s.state.SessionStart
}
