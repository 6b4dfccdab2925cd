package service

import "sync"

// ScopeLocks serializes ledger mutations per scope (a group ID, or a payer
// ID for personal expenses) so two concurrent editors cannot lose each
// other's updates. Reads that need a consistent snapshot take the shared
// side, so they can run concurrently with each other but never interleave
// with a write to the same scope.
type ScopeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewScopeLocks creates an empty lock set. One instance is shared by every
// service that mutates or snapshots the ledger.
func NewScopeLocks() *ScopeLocks {
	return &ScopeLocks{locks: make(map[string]*sync.RWMutex)}
}

func (s *ScopeLocks) get(scope string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[scope]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[scope] = l
	}
	return l
}

// Write runs fn while holding the scope's exclusive lock.
func (s *ScopeLocks) Write(scope string, fn func() error) error {
	l := s.get(scope)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Read runs fn while holding the scope's shared lock.
func (s *ScopeLocks) Read(scope string, fn func() error) error {
	l := s.get(scope)
	l.RLock()
	defer l.RUnlock()
	return fn()
}
