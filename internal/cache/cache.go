// package cache provides a small TTL-bounded table used to memoize generated
// session data and configured HTTP clients.
package cache

import (
	"sync"
	"time"
)

// Default lifetimes for the two proxy caches.
const (
	SessionTTL = time.Hour
	ClientTTL  = 30 * time.Minute
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Table is a thread-safe string-keyed map with per-entry expiry. A single
// mutex guards all operations; generation traffic is far too low for lock
// contention to matter here. Expired entries are swept opportunistically on
// the miss path rather than by a background timer.
type Table[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	onEvict func(key string, value V)
}

// New creates an empty Table.
func New[V any]() *Table[V] {
	return &Table[V]{entries: make(map[string]entry[V])}
}

// SetEvictFunc registers a callback invoked for every entry removed by sweep
// or Clear. Used to release resources held by cached values.
func (t *Table[V]) SetEvictFunc(fn func(key string, value V)) {
	t.mu.Lock()
	t.onEvict = fn
	t.mu.Unlock()
}

// Get returns the live value for key. Expired or absent keys miss, and a miss
// triggers a sweep of every expired entry.
func (t *Table[V]) Get(key string) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if ok && time.Now().Before(e.expiresAt) {
		return e.value, true
	}

	t.sweepLocked()
	var zero V
	return zero, false
}

// Put stores value under key with the given lifetime, replacing any previous
// entry.
func (t *Table[V]) Put(key string, value V, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.entries[key]; ok && t.onEvict != nil {
		t.onEvict(key, old.value)
	}
	t.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(ttl)}
}

// Clear evicts every entry, invoking the evict callback for each. Safe to
// call concurrently with Get; a caller may observe a value just before its
// resources are released, which the contract permits.
func (t *Table[V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, e := range t.entries {
		if t.onEvict != nil {
			t.onEvict(key, e.value)
		}
		delete(t.entries, key)
	}
}

// Len reports the number of entries, expired ones included.
func (t *Table[V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// sweepLocked removes every expired entry. Caller holds the lock.
func (t *Table[V]) sweepLocked() {
	now := time.Now()
	for key, e := range t.entries {
		if !now.Before(e.expiresAt) {
			if t.onEvict != nil {
				t.onEvict(key, e.value)
			}
			delete(t.entries, key)
		}
	}
}
