package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mercadillo/pkg/logger"
)

// Fetcher loads the authoritative value for a key from the backend.
type Fetcher func(ctx context.Context) (interface{}, error)

type entry struct {
	value     interface{}
	fetchedAt time.Time
	version   uint64
	invalid   bool
}

// Store is a read-through cache. Guarantees:
//
//   - at most one network fetch is in flight per key (callers share it)
//   - within the staleness window reads are answered from cache
//   - entries past their staleness window are served immediately while a
//     background refresh runs; explicitly invalidated entries block until
//     revalidated
//   - a refresh result is discarded if the entry was mutated while the
//     refresh was in flight (the entry version advanced)
//
// Mutations go through Mutate, which bumps the version so in-flight
// responses for older state cannot clobber an optimistic update.
type Store struct {
	mu        sync.Mutex
	entries   map[Key]*entry
	group     singleflight.Group
	stale     time.Duration
	gcAfter   time.Duration
	lastSweep time.Time

	// now is replaced in tests to step through staleness windows.
	now func() time.Time
}

func New(staleAfter, gcAfter time.Duration) *Store {
	return &Store{
		entries: make(map[Key]*entry),
		stale:   staleAfter,
		gcAfter: gcAfter,
		now:     time.Now,
	}
}

// Get returns the cached value for key, fetching on a miss. Entries past
// their staleness window are returned as-is while a background refresh
// runs; explicitly invalidated entries are revalidated before returning, so
// the read after a successful mutation reconciles with the server.
func (s *Store) Get(ctx context.Context, key Key, fetch Fetcher) (interface{}, error) {
	return s.GetWithTTL(ctx, key, s.stale, fetch)
}

// GetWithTTL is Get with a per-call staleness window, for resources that
// change on a different cadence (taxonomy lists vs. product listings).
func (s *Store) GetWithTTL(ctx context.Context, key Key, ttl time.Duration, fetch Fetcher) (interface{}, error) {
	s.mu.Lock()
	s.maybeSweep()
	e, ok := s.entries[key]
	if ok && !e.invalid {
		value := e.value
		fresh := s.now().Sub(e.fetchedAt) < ttl
		version := e.version
		s.mu.Unlock()
		if !fresh {
			s.refreshAsync(key, version, fetch)
		}
		return value, nil
	}
	var version uint64
	if ok {
		version = e.version
	}
	s.mu.Unlock()

	// Miss or invalidated: concurrent callers for the same key share one
	// fetch.
	value, err, _ := s.group.Do(string(key), func() (interface{}, error) {
		// A caller we queued behind may have revalidated already.
		s.mu.Lock()
		if e, ok := s.entries[key]; ok && !e.invalid {
			current := e.value
			s.mu.Unlock()
			return current, nil
		}
		s.mu.Unlock()

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if !s.store(key, fetched, version) {
			// A mutation advanced the entry while the fetch was in
			// flight; the mutated value wins over this response.
			if current, ok := s.Peek(key); ok {
				return current, nil
			}
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// refreshAsync revalidates key in the background. The version observed at
// trigger time gates the write-back: if a mutation advanced the entry while
// the request was in flight, the response is superseded and dropped.
func (s *Store) refreshAsync(key Key, version uint64, fetch Fetcher) {
	go func() {
		_, _, _ = s.group.Do("refresh:"+string(key), func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			fetched, err := fetch(ctx)
			if err != nil {
				logger.Debug("background refresh failed for %s: %v", key, err)
				return nil, err
			}
			if !s.store(key, fetched, version) {
				logger.Debug("discarding superseded refresh for %s", key)
			}
			return fetched, nil
		})
	}()
}

// store writes value for key if the entry version still matches expected.
// It reports whether the write happened.
func (s *Store) store(key Key, value interface{}, expected uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.entries[key] = &entry{value: value, fetchedAt: s.now()}
		return true
	}
	if e.version != expected {
		return false
	}
	e.value = value
	e.fetchedAt = s.now()
	e.invalid = false
	return true
}

// Peek returns the cached value without triggering any fetch.
func (s *Store) Peek(key Key) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Put seeds or replaces the value for key, counting as a fresh fetch.
func (s *Store) Put(key Key, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		s.entries[key] = &entry{value: value, fetchedAt: s.now()}
		return
	}
	e.value = value
	e.fetchedAt = s.now()
	e.version++
	e.invalid = false
}

// Mutate applies fn to the cached value under the store lock, publishes the
// result and bumps the version. It returns the previous value for rollback.
// ok is false when nothing is cached under key.
func (s *Store) Mutate(key Key, fn func(old interface{}) interface{}) (prev interface{}, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[key]
	if !exists {
		return nil, false
	}
	prev = e.value
	e.value = fn(e.value)
	e.version++
	// The optimistic value is the published value until the mutation
	// settles; a pending revalidation must not shadow it.
	e.invalid = false
	return prev, true
}

// Restore puts a snapshot back verbatim after a failed mutation. The version
// still advances so any refresh that raced the mutation is discarded too.
func (s *Store) Restore(key Key, snapshot interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.value = snapshot
	e.version++
	e.invalid = true
}

// Invalidate marks key for revalidation: the next read blocks on a fresh
// fetch so it reconciles with the server.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.invalid = true
	}
}

// InvalidateResource invalidates every key for one resource name,
// parameters and all.
func (s *Store) InvalidateResource(resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if key.Resource() == resource {
			e.invalid = true
		}
	}
}

// Clear empties the whole namespace. Called on logout so no authenticated
// data survives the session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]*entry)
}

// maybeSweep drops entries that have not been refreshed within the GC
// window. Caller holds the lock.
func (s *Store) maybeSweep() {
	if s.gcAfter <= 0 {
		return
	}
	now := s.now()
	if now.Sub(s.lastSweep) < s.gcAfter {
		return
	}
	s.lastSweep = now
	for key, e := range s.entries {
		if now.Sub(e.fetchedAt) > s.gcAfter {
			delete(s.entries, key)
		}
	}
}
