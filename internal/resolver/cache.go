package resolver

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// memo caches values derived from read-only Data Store rows for the lifetime
// of the resolver. Concurrent misses on one key load once.
type memo[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	group   singleflight.Group
}

func (m *memo[V]) get(key string, load func() (V, error)) (V, error) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (interface{}, error) {
		v, err := load()
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		if m.entries == nil {
			m.entries = make(map[string]V)
		}
		m.entries[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}
