package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo is a concurrency-safe, in-process read-through memo.
//
// It is built for catalog-style lookups: the first request for a key runs
// fetch and remembers the result for the lifetime of the Memo; concurrent
// requests for the same uncached key coalesce into that one in-flight fetch
// instead of racing duplicate calls. Failed fetches are not remembered, so
// a later request retries.
//
// Unlike [Cache] backends, a Memo holds typed values and has no TTL; it
// exists to deduplicate expensive fetches within a single process run (e.g. a
// registry's full package listing requested by many workers at once).
type Memo[V any] struct {
	group singleflight.Group

	mu     sync.RWMutex
	values map[string]V
}

// NewMemo creates an empty memo.
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{values: make(map[string]V)}
}

// Do returns the memoized value for key, running fetch to populate it on
// first use. Concurrent callers of Do with the same key share a single
// fetch execution and its result.
func (m *Memo[V]) Do(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		// Re-check: a previous flight may have stored the value between
		// the read above and acquiring the flight.
		m.mu.RLock()
		v, ok := m.values[key]
		m.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}

		m.mu.Lock()
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops the memoized value for key, forcing the next Do to fetch.
func (m *Memo[V]) Forget(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	m.group.Forget(key)
}
