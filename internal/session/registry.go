package session

import (
	"sync"
	"time"
)

// Expirer is an entry the registry can age out.
type Expirer interface {
	comparable
	Expired(now time.Time) bool
}

// Registry maps a key to at most one live entry. Expired entries are
// dropped lazily when looked up or when a new entry is stored.
type Registry[S Expirer] struct {
	mu      sync.Mutex
	entries map[string]S
	now     func() time.Time
}

// NewRegistry creates an empty registry. now defaults to time.Now.
func NewRegistry[S Expirer](now func() time.Time) *Registry[S] {
	if now == nil {
		now = time.Now
	}
	return &Registry[S]{entries: make(map[string]S), now: now}
}

// Get returns the live entry for key, or ErrNotFound.
func (r *Registry[S]) Get(key string) (S, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero S
	s, ok := r.entries[key]
	if !ok {
		return zero, ErrNotFound
	}
	if s.Expired(r.now()) {
		delete(r.entries, key)
		return zero, ErrNotFound
	}
	return s, nil
}

// Put stores s under key, replacing any previous entry.
func (r *Registry[S]) Put(key string, s S) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, e := range r.entries {
		if e.Expired(now) {
			delete(r.entries, k)
		}
	}
	r.entries[key] = s
}

// Remove drops the entry for key.
func (r *Registry[S]) Remove(key string) {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
}

// RemoveIf drops the entry for key only if it is still s.
func (r *Registry[S]) RemoveIf(key string, s S) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[key]; ok && cur == s {
		delete(r.entries, key)
		return true
	}
	return false
}

// Len returns the number of stored entries, live or not yet reaped.
func (r *Registry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Now returns the registry's clock reading.
func (r *Registry[S]) Now() time.Time {
	return r.now()
}
