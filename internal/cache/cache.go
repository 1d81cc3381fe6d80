// Package cache provides a process-wide keyed response cache with
// per-entry TTLs. Entries are shared by all callers: there is no
// per-actor partitioning, so anything cached here is visible to every
// request that computes the same key.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value   any
	expires time.Time
}

// Store is a concurrency-safe get-or-compute cache. A concurrent miss on
// the same key may run the producer more than once; the last write wins.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewStore() *Store {
	s := &Store{
		entries:     make(map[string]entry),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// GetOrCompute returns the cached value for key if it has not expired,
// otherwise runs producer, stores the result for ttl, and returns it.
// Producer errors are not cached.
func (s *Store) GetOrCompute(key string, ttl time.Duration, producer func() (any, error)) (any, error) {
	s.mu.Lock()
	if cached, ok := s.entries[key]; ok && s.now().Before(cached.expires) {
		s.mu.Unlock()
		return cached.value, nil
	}
	s.mu.Unlock()

	// Compute outside the lock so a slow producer does not serialize
	// unrelated keys. Duplicate concurrent computes are tolerated.
	value, err := producer()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expires: s.now().Add(ttl)}
	s.mu.Unlock()
	return value, nil
}

// Forget drops a single key.
func (s *Store) Forget(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, cached := range s.entries {
		if !now.Before(cached.expires) {
			delete(s.entries, key)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})
}
