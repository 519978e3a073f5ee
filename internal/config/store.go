package config

import (
	"sync"
	"sync/atomic"
)

// Store publishes the current Config to concurrent readers.
// Updates replace the whole snapshot, so a reader never sees a partial change.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Config]
}

// NewStore creates a store seeded with cfg. A nil cfg seeds the defaults.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = New()
	}
	s := &Store{}
	s.current.Store(cfg)
	return s
}

// Load returns the current snapshot
func (s *Store) Load() *Config {
	return s.current.Load()
}

// Update applies u to the current snapshot and publishes the result
func (s *Store) Update(u Update) *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().Update(u)
	s.current.Store(next)
	return next
}
