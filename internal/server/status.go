package server

import "sync"

// Status tracks the current build state for the health endpoint.
type Status struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

// SetError records a failed build.
func (s *Status) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

// SetSuccess records a successful build.
func (s *Status) SetSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = nil
	s.hasGoodBuild = true
}

// Snapshot returns the last build error (nil when healthy) and whether at
// least one successful build exists.
func (s *Status) Snapshot() (lastError error, hasGoodBuild bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError, s.hasGoodBuild
}
