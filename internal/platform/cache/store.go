// Package cache is the in-process TTL cache behind the repository
// decorators. Entries live for one fixed TTL and misses load through a
// singleflight so a cold key hits the backing store once.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matchpulse/api/internal/platform/resilience"
)

type item struct {
	value    any
	deadline time.Time
}

// expired reports whether the item is past its deadline. A zero deadline
// means the store was built without a TTL and the item never ages out.
func (i item) expired(now time.Time) bool {
	return !i.deadline.IsZero() && !i.deadline.After(now)
}

type Store struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	group resilience.SingleFlight
}

// NewStore builds a store whose entries expire ttl after each Set. A
// non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		ttl:   ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock so a concurrent Set is not dropped.
		if current, ok := s.items[key]; ok && current.expired(now) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	it := item{value: value}
	if s.ttl > 0 {
		it.deadline = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key under prefix. Decorators use it to sweep all
// cached windows for an entity kind after a write.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or runs loader to fill it.
// Concurrent misses on the same key share one loader call; a failed load is
// never cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		// A follower may arrive here after the leader already filled the key.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
