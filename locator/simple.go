package locator

import "reflect"

// FallbackFunc produces a value of the given type when the facade cannot
// resolve it normally.
type FallbackFunc func(t reflect.Type) (any, error)

// simpleEntry stores a facade-resolved value directly, with no key-kind
// dispatch behind it.
type simpleEntry struct {
	value any
}

// EntryValue implements ValueEntry.
func (e *simpleEntry) EntryValue() (any, error) { return e.value, nil }

// Simple is a narrower facade over a scoped locator: callers never see key
// kinds, only served types. Every registration goes through an implicit
// class-identity lazy key for T, so identity follows the type.
//
//	s := locator.NewSimple(locator.Named("production"))
//	err := locator.Register(s, func() (*Clock, error) { return NewClock(), nil })
//	clock, err := locator.Resolve[*Clock](s)
type Simple struct {
	loc *Scoped

	// Facade-level fallbacks, consulted when the underlying locator misses
	// or rejects the scope. Both default to nil, which surfaces the
	// underlying condition.
	onMiss         FallbackFunc
	onInvalidScope FallbackFunc
}

// SimpleOption configures a Simple facade.
type SimpleOption func(*Simple)

// WithSimpleOnMiss installs the facade's miss fallback.
func WithSimpleOnMiss(fn FallbackFunc) SimpleOption {
	return func(s *Simple) { s.onMiss = fn }
}

// WithSimpleOnInvalidScope installs the facade's invalid-scope fallback.
func WithSimpleOnInvalidScope(fn FallbackFunc) SimpleOption {
	return func(s *Simple) { s.onInvalidScope = fn }
}

// WithSimpleReRegistration allows Register to replace existing entries.
func WithSimpleReRegistration() SimpleOption {
	return func(s *Simple) { s.loc.allowReregister = true }
}

// NewSimple creates a facade bound to the given scope.
func NewSimple(scope Scope, opts ...SimpleOption) *Simple {
	s := &Simple{}
	s.loc = NewScoped(scope,
		WithOnMiss(func(k AnyKey) (Entry, error) {
			return s.fallback(s.onMiss, k, ErrNotRegistered)
		}),
		WithOnInvalidScope(func(k AnyKey) (Entry, error) {
			return s.fallback(s.onInvalidScope, k, ErrInvalidScope)
		}),
		WithGetValue(func(_ AnyKey, e Entry) (any, bool) {
			if se, ok := e.(*simpleEntry); ok {
				return se.value, true
			}
			return nil, false
		}),
	)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSimpleTesting creates a facade whose miss and invalid-scope fallbacks
// both synthesize substitutes through create, and whose registrations may be
// replaced freely.
func NewSimpleTesting(scope Scope, create SubstituteFunc, opts ...SimpleOption) *Simple {
	fallback := func(t reflect.Type) (any, error) { return create(t), nil }
	base := []SimpleOption{
		WithSimpleReRegistration(),
		WithSimpleOnMiss(fallback),
		WithSimpleOnInvalidScope(fallback),
	}
	return NewSimple(scope, append(base, opts...)...)
}

// Scope returns the underlying locator's environment label.
func (s *Simple) Scope() Scope { return s.loc.Scope() }

// Locator exposes the underlying scoped locator for callers that need to
// mix facade and keyed access.
func (s *Simple) Locator() *Scoped { return s.loc }

// fallback wraps a facade-level fallback value into the private entry shape,
// surfacing sentinel when no fallback is installed.
func (s *Simple) fallback(fn FallbackFunc, k AnyKey, sentinel error) (Entry, error) {
	if fn == nil {
		return nil, keyError(sentinel, k)
	}
	v, err := fn(k.ValueType())
	if err != nil {
		return nil, err
	}
	return &simpleEntry{value: v}, nil
}

// ── Facade operations ────────────────────────────────────────────────────────

// Register binds a provider for T under its type identity.
func Register[T any](s *Simple, provide Provider[T]) error {
	return Put[T, None, Provider[T]](s.loc.Locator, NewClassLazy[T](), provide)
}

// Resolve retrieves the value registered for T, computing it on first
// access. A missing type routes through the facade's miss fallback.
func Resolve[T any](s *Simple) (T, error) {
	return Get[T, None, Provider[T]](s.loc.Locator, NewClassLazy[T](), None{})
}

// ResolveOrNull retrieves the value registered for T; ok is false when the
// type has no entry.
func ResolveOrNull[T any](s *Simple) (v T, ok bool, err error) {
	return GetOrNull[T, None, Provider[T]](s.loc.Locator, NewClassLazy[T](), None{})
}

// ResolveOrProvide retrieves the value for T, registering the provider first
// if the type is absent and the predicate accepts the facade's scope.
func ResolveOrProvide[T any](s *Simple, allowed ScopePredicate, provide Provider[T]) (T, error) {
	return GetOrProvide[T, None, Provider[T]](s.loc, NewClassLazy[T](), allowed, provide, None{})
}
