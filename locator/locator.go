package locator

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MissHook produces a substitute entry for a key that has no registration.
// Returning an error surfaces the miss to the caller; returning an entry
// stores it and resolution continues through it.
type MissHook func(k AnyKey) (Entry, error)

// InvalidScopeHook produces a substitute entry when conditional provisioning
// rejects the locator's scope.
type InvalidScopeHook func(k AnyKey) (Entry, error)

// ValueHook intercepts extraction for entry shapes the hook recognizes.
// Returning ok=false falls through to the key's own extraction logic.
type ValueHook func(k AnyKey, e Entry) (v any, ok bool)

// Locator owns a registry of key-to-entry mappings. Safe for concurrent use
// by any number of goroutines.
type Locator struct {
	reg             *registry
	id              string
	allowReregister bool
	defaultSafety   Safety

	onMiss         MissHook
	onInvalidScope InvalidScopeHook
	getValue       ValueHook

	log *zap.Logger
}

// Option configures a Locator at construction.
type Option func(*Locator)

// WithReRegistration lets Put silently replace an existing entry instead of
// failing with ErrDuplicateRegistration. Intended for test locators.
func WithReRegistration() Option {
	return func(l *Locator) { l.allowReregister = true }
}

// WithDefaultSafety sets the Safety used by deferred computations whose key
// carries no per-key override. Defaults to SafetySynchronized.
func WithDefaultSafety(s Safety) Option {
	return func(l *Locator) { l.defaultSafety = s }
}

// WithLogger attaches a logger; debug-level events are emitted on
// registration and provisioning decisions. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Locator) { l.log = log }
}

// WithOnMiss overrides the miss behavior of Get.
func WithOnMiss(h MissHook) Option {
	return func(l *Locator) { l.onMiss = h }
}

// WithOnInvalidScope overrides the scope-rejection behavior of GetOrProvide.
func WithOnInvalidScope(h InvalidScopeHook) Option {
	return func(l *Locator) { l.onInvalidScope = h }
}

// WithGetValue installs an extraction interceptor consulted before the key's
// own Value logic.
func WithGetValue(h ValueHook) Option {
	return func(l *Locator) { l.getValue = h }
}

// New creates an empty locator.
func New(opts ...Option) *Locator {
	l := &Locator{
		reg:           newRegistry(),
		id:            uuid.NewString(),
		defaultSafety: SafetySynchronized,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With(zap.String("locator", l.id))
	return l
}

// ID returns the locator's instance id, used in log fields.
func (l *Locator) ID() string { return l.id }

// Size returns the number of registered entries.
func (l *Locator) Size() int { return l.reg.size() }

// GetOrProvideEntry returns the entry stored for k, invoking supply to
// create it when absent. This is the single choke point for every
// lazy-provisioning path: at most one entry is constructed per key, even
// across concurrent callers.
func (l *Locator) GetOrProvideEntry(k AnyKey, supply func() (Entry, error)) (Entry, error) {
	return l.reg.computeIfAbsent(k.ID(), supply)
}

// missEntry resolves a Get miss through the hook, storing whatever entry the
// hook produces so repeated misses observe the same substitute.
func (l *Locator) missEntry(k AnyKey) (Entry, error) {
	if l.onMiss == nil {
		return nil, keyError(ErrNotRegistered, k)
	}
	return l.reg.computeIfAbsent(k.ID(), func() (Entry, error) {
		l.log.Debug("synthesizing entry for missing key", zap.Stringer("key", k))
		return l.onMiss(k)
	})
}

// invalidScopeEntry resolves a scope rejection through the hook. Called from
// inside computeIfAbsent, so the resulting entry is stored atomically with
// the rejection decision.
func (l *Locator) invalidScopeEntry(k AnyKey) (Entry, error) {
	if l.onInvalidScope == nil {
		return nil, keyError(ErrInvalidScope, k)
	}
	l.log.Debug("synthesizing entry for rejected scope", zap.Stringer("key", k))
	return l.onInvalidScope(k)
}

// ── Generic operations ───────────────────────────────────────────────────────
//
// The key kinds expose these as methods (LazyKey.Put, LazyKey.Get, ...);
// the generic forms exist for key kinds defined outside this package, which
// must instantiate them explicitly since Go cannot infer type arguments
// from a concrete key's interface implementation.

// Put builds an entry from params and stores it under k. It fails with
// ErrDuplicateRegistration when k is already registered, unless the locator
// was constructed with WithReRegistration.
func Put[T, G, P any](l *Locator, k Key[T, G, P], params P) error {
	e, err := k.NewEntry(l, params)
	if err != nil {
		return err
	}
	if l.allowReregister {
		if prev := l.reg.put(k.ID(), e); prev != nil {
			l.log.Debug("re-registered key", zap.Stringer("key", k))
		}
		return nil
	}
	if _, existed := l.reg.putIfAbsent(k.ID(), e); existed {
		return keyError(ErrDuplicateRegistration, k)
	}
	l.log.Debug("registered key", zap.Stringer("key", k))
	return nil
}

// Get extracts k's value. A missing key routes through the locator's miss
// hook and fails with ErrNotRegistered when no hook is installed.
func Get[T, G, P any](l *Locator, k Key[T, G, P], params G) (T, error) {
	e, ok := l.reg.get(k.ID())
	if !ok {
		var err error
		e, err = l.missEntry(k)
		if err != nil {
			var zero T
			return zero, err
		}
	}
	return extract(l, k, e, params)
}

// GetOrNull extracts k's value; ok reports false instead of invoking the
// miss hook when the key has no entry.
func GetOrNull[T, G, P any](l *Locator, k Key[T, G, P], params G) (v T, ok bool, err error) {
	e, found := l.reg.get(k.ID())
	if !found {
		var zero T
		return zero, false, nil
	}
	v, err = extract(l, k, e, params)
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// extract is the extraction indirection: the locator's value hook sees the
// entry first and may short-circuit key-kind dispatch entirely.
func extract[T, G, P any](l *Locator, k Key[T, G, P], e Entry, params G) (T, error) {
	if l.getValue != nil {
		if v, ok := l.getValue(k, e); ok {
			return asValue[T](k, v)
		}
	}
	return k.Value(l, e, params)
}
