package locator

import (
	"fmt"
	"sync"

	"github.com/km-arc/go-locator/lifecycle"
)

// lifecycleEntry caches a lazily-computed value only while at least one
// observer remains at or above the minimum activity state. When the last
// observer deactivates, the cached value is discarded and a fresh deferred
// value is installed, so the next retrieval runs the provider again.
type lifecycleEntry struct {
	label    string
	provider func() (any, error)
	mode     Safety
	min      lifecycle.State

	mu        sync.Mutex
	current   *lazyEntry
	observers map[lifecycle.Observer]func() // observer -> unsubscribe
}

func newLifecycleEntry(label string, provider func() (any, error), mode Safety, min lifecycle.State) *lifecycleEntry {
	return &lifecycleEntry{
		label:     label,
		provider:  provider,
		mode:      mode,
		min:       min,
		current:   newLazyEntry(label, provider, mode),
		observers: make(map[lifecycle.Observer]func()),
	}
}

// get validates the observer, tracks it, and forces the current deferred
// value. The provider never runs for a below-threshold observer.
func (e *lifecycleEntry) get(obs lifecycle.Observer) (any, error) {
	if !obs.CurrentState().AtLeast(e.min) {
		return nil, fmt.Errorf("%w: %s requires at least %s, observer is %s",
			ErrInvalidLifecycleState, e.label, e.min, obs.CurrentState())
	}

	e.mu.Lock()
	if _, tracked := e.observers[obs]; !tracked {
		cancel := obs.Subscribe(func(s lifecycle.State) { e.stateChanged(obs, s) })
		e.observers[obs] = cancel
	}
	cur := e.current
	e.mu.Unlock()

	// Forcing happens outside e.mu so a provider that resolves other keys
	// cannot deadlock against observer callbacks.
	return cur.force()
}

// stateChanged drops an observer that fell below the threshold. Once the set
// drains, the deferred value is replaced with a fresh unconstructed one.
func (e *lifecycleEntry) stateChanged(obs lifecycle.Observer, s lifecycle.State) {
	if s.AtLeast(e.min) {
		return
	}

	e.mu.Lock()
	cancel, tracked := e.observers[obs]
	if tracked {
		delete(e.observers, obs)
		if len(e.observers) == 0 {
			e.current = newLazyEntry(e.label, e.provider, e.mode)
		}
	}
	e.mu.Unlock()

	if tracked {
		cancel()
	}
}

// observerCount reports how many observers currently hold the value.
func (e *lifecycleEntry) observerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.observers)
}

// ── LifecycleKey ─────────────────────────────────────────────────────────────

// LifecycleKey registers a provider whose value lives only as long as at
// least one retrieving observer stays active. Retrieval takes the observer
// as its parameter; an observer below the minimum state is rejected
// immediately with ErrInvalidLifecycleState.
type LifecycleKey[T any] struct {
	keyBase[T]
	cfg keyConfig
}

// NewLifecycle creates a lifecycle-scoped key serving T. The minimum
// activity state defaults to lifecycle.StateStarted; override with
// WithMinState. WithSafety applies to the deferred value computation.
func NewLifecycle[T any](name string, opts ...KeyOption) *LifecycleKey[T] {
	k := &LifecycleKey[T]{keyBase: newKeyBase[T]("LifecycleKey", name)}
	for _, opt := range opts {
		opt(&k.cfg)
	}
	return k
}

// NewEntry implements Key.
func (k *LifecycleKey[T]) NewEntry(l *Locator, provide Provider[T]) (Entry, error) {
	return newLifecycleEntry(
		k.String(),
		untyped(provide),
		k.cfg.safetyOr(l.defaultSafety),
		k.cfg.minStateOr(lifecycle.StateStarted),
	), nil
}

// Value implements Key.
func (k *LifecycleKey[T]) Value(_ *Locator, e Entry, obs lifecycle.Observer) (T, error) {
	le, ok := e.(*lifecycleEntry)
	if !ok {
		return wrongEntry[T](k, e)
	}
	v, err := le.get(obs)
	if err != nil {
		var zero T
		return zero, err
	}
	return asValue[T](k, v)
}

// Put registers the provider under this key.
func (k *LifecycleKey[T]) Put(l *Locator, provide Provider[T]) error {
	return Put[T, lifecycle.Observer, Provider[T]](l, k, provide)
}

// Get retrieves the value on behalf of obs, computing it on first access.
func (k *LifecycleKey[T]) Get(l *Locator, obs lifecycle.Observer) (T, error) {
	return Get[T, lifecycle.Observer, Provider[T]](l, k, obs)
}

// GetOrNull is Get without the miss hook.
func (k *LifecycleKey[T]) GetOrNull(l *Locator, obs lifecycle.Observer) (v T, ok bool, err error) {
	return GetOrNull[T, lifecycle.Observer, Provider[T]](l, k, obs)
}

// GetOrProvide retrieves the value on behalf of obs, registering the
// provider first if the key is absent and the scope predicate accepts s's
// scope.
func (k *LifecycleKey[T]) GetOrProvide(s *Scoped, allowed ScopePredicate, provide Provider[T], obs lifecycle.Observer) (T, error) {
	return GetOrProvide[T, lifecycle.Observer, Provider[T]](s, k, allowed, provide, obs)
}
