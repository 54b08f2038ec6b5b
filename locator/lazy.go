package locator

import (
	"fmt"
	"sync"
)

// Provider computes a served value on demand.
type Provider[T any] func() (T, error)

// ── lazyEntry ────────────────────────────────────────────────────────────────

// lazyEntry defers computation of its value to first access. States:
// unconstructed (no value, nobody computing), initializing (a provider call
// is in flight), initialized (value cached forever).
//
// A failed computation returns the entry to unconstructed, so a later access
// retries the provider. A goroutine that re-enters force while its own
// provider call is still in flight is reporting a circular dependency and
// fails immediately; the in-flight outer call is not corrupted.
type lazyEntry struct {
	label    string
	provider func() (any, error)
	mode     Safety

	mu        sync.Mutex
	done      chan struct{}      // non-nil while a synchronized computation is in flight
	computing map[int64]struct{} // goroutines currently inside the provider
	value     any
	init      bool
}

func newLazyEntry(label string, provider func() (any, error), mode Safety) *lazyEntry {
	return &lazyEntry{
		label:     label,
		provider:  provider,
		mode:      mode,
		computing: make(map[int64]struct{}),
	}
}

// EntryValue implements ValueEntry so lazy entries can satisfy
// class-identity retrieval.
func (e *lazyEntry) EntryValue() (any, error) { return e.force() }

// force returns the cached value, computing it first when needed.
func (e *lazyEntry) force() (any, error) {
	gid := goid()

	e.mu.Lock()
	if e.init {
		v := e.value
		e.mu.Unlock()
		return v, nil
	}

	// The reentrancy check and the computation share one synchronization
	// boundary: the flag is set under e.mu before the provider starts, so a
	// reentrant call on the same goroutine always observes it.
	if _, busy := e.computing[gid]; busy {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, e.label)
	}

	if e.mode == SafetySynchronized {
		for e.done != nil {
			d := e.done
			e.mu.Unlock()
			<-d
			e.mu.Lock()
			if e.init {
				v := e.value
				e.mu.Unlock()
				return v, nil
			}
			// The in-flight computation failed; take over.
		}
		e.done = make(chan struct{})
	}
	e.computing[gid] = struct{}{}
	e.mu.Unlock()

	v, err := e.provider()

	e.mu.Lock()
	delete(e.computing, gid)
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if !e.init {
		// Under SafetyPublication several computations may race; the first
		// stored result wins and later ones are discarded.
		e.value = v
		e.init = true
	}
	v = e.value
	e.mu.Unlock()
	return v, nil
}

// initialized reports whether the value has been computed.
func (e *lazyEntry) initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.init
}

// ── LazyKey ──────────────────────────────────────────────────────────────────

// LazyKey registers a provider whose result is computed on first retrieval
// and cached for the entry's lifetime. Identity is per key instance.
type LazyKey[T any] struct {
	keyBase[T]
	cfg keyConfig
}

// NewLazy creates a lazy key serving T. The name appears in error messages
// and logs only; it does not participate in identity.
func NewLazy[T any](name string, opts ...KeyOption) *LazyKey[T] {
	k := &LazyKey[T]{keyBase: newKeyBase[T]("LazyKey", name)}
	for _, opt := range opts {
		opt(&k.cfg)
	}
	return k
}

// NewEntry implements Key.
func (k *LazyKey[T]) NewEntry(l *Locator, provide Provider[T]) (Entry, error) {
	return newLazyEntry(k.String(), untyped(provide), k.cfg.safetyOr(l.defaultSafety)), nil
}

// Value implements Key. Extraction goes through the ValueEntry capability,
// so hook-synthesized entries are accepted alongside the kind's own.
func (k *LazyKey[T]) Value(_ *Locator, e Entry, _ None) (T, error) {
	return classValue[T](k, e)
}

// Put registers the provider under this key.
func (k *LazyKey[T]) Put(l *Locator, provide Provider[T]) error {
	return Put[T, None, Provider[T]](l, k, provide)
}

// Get retrieves the value, computing it on first access.
func (k *LazyKey[T]) Get(l *Locator) (T, error) {
	return Get[T, None, Provider[T]](l, k, None{})
}

// GetOrNull is Get without the miss hook; ok is false when the key has no
// entry.
func (k *LazyKey[T]) GetOrNull(l *Locator) (v T, ok bool, err error) {
	return GetOrNull[T, None, Provider[T]](l, k, None{})
}

// GetOrProvide retrieves the value, registering the provider first if the
// key is absent and the scope predicate accepts s's scope.
func (k *LazyKey[T]) GetOrProvide(s *Scoped, allowed ScopePredicate, provide Provider[T]) (T, error) {
	return GetOrProvide[T, None, Provider[T]](s, k, allowed, provide, None{})
}

// untyped adapts a typed provider to the entry-level shape.
func untyped[T any](provide Provider[T]) func() (any, error) {
	return func() (any, error) { return provide() }
}
