package handle

import (
	"sync"
	"sync/atomic"
)

// Handle is an opaque reference to a native-owned resource.
// Handle 0 is reserved and always invalid. Values are issued from a
// process-wide monotonic counter and are never reused, so a stale
// handle can never alias a newer resource.
type Handle uint64

var nextHandle atomic.Uint64

// Dropper is optionally implemented by registered values that need cleanup.
type Dropper interface {
	Drop()
}

// Registry is a concurrency-safe table mapping handles to owned values.
// It is the only place a handle's representation has meaning; callers
// on the far side of the boundary see nothing but the integer.
type Registry struct {
	mu      sync.RWMutex
	entries map[Handle]any
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Handle]any),
	}
}

// Insert stores a value and returns its handle.
// Returns 0 after Close.
func (r *Registry) Insert(value any) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0
	}

	h := Handle(nextHandle.Add(1))
	r.entries[h] = value
	return h
}

// Get retrieves a value by handle.
func (r *Registry) Get(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.entries[h]
	return v, ok
}

// Remove drops a handle and returns (value, true) exactly once.
// A second Remove of the same handle returns (nil, false); callers rely
// on this to make release idempotent.
func (r *Registry) Remove(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	r.mu.Lock()
	v, ok := r.entries[h]
	if ok {
		delete(r.entries, h)
	}
	r.mu.Unlock()

	return v, ok
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Each iterates over all live handles.
func (r *Registry) Each(fn func(Handle, any) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for h, v := range r.entries {
		if !fn(h, v) {
			break
		}
	}
}

// Close drops all handles and rejects further inserts.
// Values implementing Dropper are released. Idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.entries
	r.entries = nil
	r.mu.Unlock()

	// Drop outside the lock; release paths may take their own locks.
	for _, v := range entries {
		if d, ok := v.(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}
