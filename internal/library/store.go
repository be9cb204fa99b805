package library

import (
	"sync"
	"sync/atomic"
)

// Store holds the currently published Snapshot.
// Publish is called by the sync orchestrator only; Current may be called from anywhere.
type Store struct {
	current atomic.Pointer[Snapshot]

	// publishMu orders concurrent publishers so versions stay monotonic
	publishMu sync.Mutex
	version   uint64
}

// NewStore creates an empty store. Current returns an empty snapshot until the first Publish.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{})
	return s
}

// Publish stamps snap with the next version and makes it the current snapshot.
// The store takes ownership of snap; callers must not modify it afterwards.
func (s *Store) Publish(snap *Snapshot) *Snapshot {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.version++
	snap.Version = s.version
	s.current.Store(snap)
	return snap
}

// Current returns the latest published snapshot. It never blocks on a running sync.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// HasSnapshot reports whether at least one snapshot has been published
func (s *Store) HasSnapshot() bool {
	return s.current.Load().Version > 0
}
