// Package cache is a small in-process read-through cache with per-entry TTL,
// an entry cap, and collapsed concurrent loads.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store holds values of one type. The zero TTL keeps entries until evicted;
// a zero cap leaves the store unbounded.
type Store[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	flight     resilience.Flight[V]
	now        func() time.Time
}

func NewStore[V any](ttl time.Duration, maxEntries int) *Store[V] {
	return &Store[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if s == nil || key == "" {
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if s.expired(e, s.now()) {
		delete(s.entries, key)
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key string, value V) {
	if s == nil || key == "" {
		return
	}

	now := s.now()
	e := entry[V]{value: value}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evict(now)
	}
	s.entries[key] = e
}

func (s *Store[V]) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Load returns the cached value for key or runs loader once for all concurrent
// callers of the same key. Failed loads are not cached.
func (s *Store[V]) Load(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if s == nil || key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	value, _, err := s.flight.Do(ctx, key, func() (V, error) {
		if cached, ok := s.Get(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return loaded, err
		}
		s.Set(key, loaded)
		return loaded, nil
	})
	return value, err
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// evict drops expired entries, then the one closest to expiry if the store is
// still full. Callers hold mu.
func (s *Store[V]) evict(now time.Time) {
	var (
		victim   string
		earliest time.Time
	)
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			continue
		}
		if victim == "" || e.expiresAt.Before(earliest) {
			victim, earliest = key, e.expiresAt
		}
	}
	if len(s.entries) >= s.maxEntries && victim != "" {
		delete(s.entries, victim)
	}
}
