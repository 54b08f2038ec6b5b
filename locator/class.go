package locator

import (
	"fmt"
	"reflect"
)

// classID keys the registry by served type. Any two class-identity keys for
// the same T collide, whatever their kind.
type classID struct {
	t reflect.Type
}

// classBase is keyBase's counterpart for type-identity kinds.
type classBase[T any] struct {
	kind string
}

func (b *classBase[T]) ID() any                 { return classID{t: reflect.TypeOf((*T)(nil)).Elem()} }
func (b *classBase[T]) ValueType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
func (b *classBase[T]) MockPerCall() bool       { return false }

func (b *classBase[T]) String() string {
	return fmt.Sprintf("%s[%s]", b.kind, reflect.TypeOf((*T)(nil)).Elem())
}

// classValue extracts through the ValueEntry capability, since the entry may
// have been created by a class key of the other kind.
func classValue[T any](k AnyKey, e Entry) (T, error) {
	ve, ok := e.(ValueEntry)
	if !ok {
		return wrongEntry[T](k, e)
	}
	v, err := ve.EntryValue()
	if err != nil {
		var zero T
		return zero, err
	}
	return asValue[T](k, v)
}

// ── ClassLazyKey ─────────────────────────────────────────────────────────────

// ClassLazyKey is a lazy key whose identity is the served type T. A value
// registered through any class-identity key for T, lazy or singleton, is
// retrievable through this one.
type ClassLazyKey[T any] struct {
	classBase[T]
	cfg keyConfig
}

// NewClassLazy creates a class-identity lazy key serving T.
func NewClassLazy[T any](opts ...KeyOption) *ClassLazyKey[T] {
	k := &ClassLazyKey[T]{classBase: classBase[T]{kind: "ClassLazyKey"}}
	for _, opt := range opts {
		opt(&k.cfg)
	}
	return k
}

// NewEntry implements Key.
func (k *ClassLazyKey[T]) NewEntry(l *Locator, provide Provider[T]) (Entry, error) {
	return newLazyEntry(k.String(), untyped(provide), k.cfg.safetyOr(l.defaultSafety)), nil
}

// Value implements Key.
func (k *ClassLazyKey[T]) Value(_ *Locator, e Entry, _ None) (T, error) {
	return classValue[T](k, e)
}

// Put registers the provider under the served type's identity.
func (k *ClassLazyKey[T]) Put(l *Locator, provide Provider[T]) error {
	return Put[T, None, Provider[T]](l, k, provide)
}

// Get retrieves the value, computing it on first access.
func (k *ClassLazyKey[T]) Get(l *Locator) (T, error) {
	return Get[T, None, Provider[T]](l, k, None{})
}

// GetOrNull is Get without the miss hook.
func (k *ClassLazyKey[T]) GetOrNull(l *Locator) (v T, ok bool, err error) {
	return GetOrNull[T, None, Provider[T]](l, k, None{})
}

// GetOrProvide retrieves the value, registering the provider first if the
// served type is absent and the scope predicate accepts s's scope.
func (k *ClassLazyKey[T]) GetOrProvide(s *Scoped, allowed ScopePredicate, provide Provider[T]) (T, error) {
	return GetOrProvide[T, None, Provider[T]](s, k, allowed, provide, None{})
}

// ── ClassSingletonKey ────────────────────────────────────────────────────────

// ClassSingletonKey is a singleton key whose identity is the served type T.
// It collides with ClassLazyKey for the same T.
type ClassSingletonKey[T any] struct {
	classBase[T]
}

// NewClassSingleton creates a class-identity singleton key serving T.
func NewClassSingleton[T any]() *ClassSingletonKey[T] {
	return &ClassSingletonKey[T]{classBase: classBase[T]{kind: "ClassSingletonKey"}}
}

// NewEntry implements Key.
func (k *ClassSingletonKey[T]) NewEntry(_ *Locator, value T) (Entry, error) {
	return &singletonEntry{value: value}, nil
}

// Value implements Key.
func (k *ClassSingletonKey[T]) Value(_ *Locator, e Entry, _ None) (T, error) {
	return classValue[T](k, e)
}

// Put registers the value under the served type's identity.
func (k *ClassSingletonKey[T]) Put(l *Locator, value T) error {
	return Put[T, None, T](l, k, value)
}

// Get retrieves the registered value.
func (k *ClassSingletonKey[T]) Get(l *Locator) (T, error) {
	return Get[T, None, T](l, k, None{})
}

// GetOrNull is Get without the miss hook.
func (k *ClassSingletonKey[T]) GetOrNull(l *Locator) (v T, ok bool, err error) {
	return GetOrNull[T, None, T](l, k, None{})
}

// GetOrProvide retrieves the value, registering it first if the served type
// is absent and the scope predicate accepts s's scope.
func (k *ClassSingletonKey[T]) GetOrProvide(s *Scoped, allowed ScopePredicate, value T) (T, error) {
	return GetOrProvide[T, None, T](s, k, allowed, value, None{})
}
