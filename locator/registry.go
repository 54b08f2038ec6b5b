package locator

import "sync"

// registry is the one concurrency boundary of the package: a mutex-guarded
// map from key identity to stored entry. Entry value computation never runs
// under this lock; only entry construction does, which is what makes
// computeIfAbsent's single-invocation guarantee hold.
type registry struct {
	mu      sync.RWMutex
	entries map[any]Entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[any]Entry)}
}

// get returns the entry stored under id, if any.
func (r *registry) get(id any) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// put stores e under id unconditionally and returns the previous entry.
func (r *registry) put(id any, e Entry) (prev Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev = r.entries[id]
	r.entries[id] = e
	return prev
}

// putIfAbsent stores e under id only when no entry exists. It returns the
// entry now stored and whether an existing one was found.
func (r *registry) putIfAbsent(id any, e Entry) (stored Entry, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[id]; ok {
		return prev, true
	}
	r.entries[id] = e
	return e, false
}

// computeIfAbsent returns the entry stored under id, invoking supply to
// create it when absent. The supplier runs while the map lock is held, so
// concurrent first-callers for the same id observe exactly one invocation
// and the same resulting entry. A supplier error stores nothing.
func (r *registry) computeIfAbsent(id any, supply func() (Entry, error)) (Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	e, err := supply()
	if err != nil {
		return nil, err
	}
	r.entries[id] = e
	return e, nil
}

// size returns the number of stored entries.
func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
