package locator

import (
	"fmt"
	"reflect"
)

// factoryEntry stores a producer and nothing else: every retrieval invokes
// it fresh. It deliberately does not implement ValueEntry; there is no
// resolved value to alias under class identity.
type factoryEntry struct {
	produce func(arg any) (any, error)
}

// ── FactoryKey ───────────────────────────────────────────────────────────────

// FactoryKey registers a producer invoked anew on every retrieval.
type FactoryKey[T any] struct {
	keyBase[T]
}

// NewFactory creates a factory key serving T.
func NewFactory[T any](name string) *FactoryKey[T] {
	return &FactoryKey[T]{keyBase: newKeyBase[T]("FactoryKey", name)}
}

// MockPerCall reports true: a testing locator regenerates the substitute on
// every retrieval, mirroring the factory's own no-caching policy.
func (k *FactoryKey[T]) MockPerCall() bool { return true }

// NewEntry implements Key.
func (k *FactoryKey[T]) NewEntry(_ *Locator, provide Provider[T]) (Entry, error) {
	return &factoryEntry{produce: func(any) (any, error) { return provide() }}, nil
}

// Value implements Key.
func (k *FactoryKey[T]) Value(_ *Locator, e Entry, _ None) (T, error) {
	fe, ok := e.(*factoryEntry)
	if !ok {
		return wrongEntry[T](k, e)
	}
	v, err := fe.produce(nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return asValue[T](k, v)
}

// Put registers the producer under this key.
func (k *FactoryKey[T]) Put(l *Locator, provide Provider[T]) error {
	return Put[T, None, Provider[T]](l, k, provide)
}

// Get invokes the producer and returns its result.
func (k *FactoryKey[T]) Get(l *Locator) (T, error) {
	return Get[T, None, Provider[T]](l, k, None{})
}

// GetOrNull is Get without the miss hook.
func (k *FactoryKey[T]) GetOrNull(l *Locator) (v T, ok bool, err error) {
	return GetOrNull[T, None, Provider[T]](l, k, None{})
}

// GetOrProvide invokes the producer, registering it first if the key is
// absent and the scope predicate accepts s's scope.
func (k *FactoryKey[T]) GetOrProvide(s *Scoped, allowed ScopePredicate, provide Provider[T]) (T, error) {
	return GetOrProvide[T, None, Provider[T]](s, k, allowed, provide, None{})
}

// ── ParamFactoryKey ──────────────────────────────────────────────────────────

// ParamFactory computes a served value from a retrieval-time argument.
type ParamFactory[T, A any] func(arg A) (T, error)

// ParamFactoryKey is a factory key whose producer receives a retrieval-time
// argument of type A.
type ParamFactoryKey[T, A any] struct {
	keyBase[T]
}

// NewParamFactory creates a parameterized factory key serving T from A.
func NewParamFactory[T, A any](name string) *ParamFactoryKey[T, A] {
	return &ParamFactoryKey[T, A]{keyBase: newKeyBase[T]("ParamFactoryKey", name)}
}

// MockPerCall reports true, as for FactoryKey.
func (k *ParamFactoryKey[T, A]) MockPerCall() bool { return true }

// NewEntry implements Key.
func (k *ParamFactoryKey[T, A]) NewEntry(_ *Locator, provide ParamFactory[T, A]) (Entry, error) {
	return &factoryEntry{produce: func(arg any) (any, error) {
		a, ok := arg.(A)
		if !ok {
			return nil, fmt.Errorf("locator: %s called with argument %T, want %s",
				k, arg, reflect.TypeOf((*A)(nil)).Elem())
		}
		return provide(a)
	}}, nil
}

// Value implements Key.
func (k *ParamFactoryKey[T, A]) Value(_ *Locator, e Entry, arg A) (T, error) {
	fe, ok := e.(*factoryEntry)
	if !ok {
		return wrongEntry[T](k, e)
	}
	v, err := fe.produce(arg)
	if err != nil {
		var zero T
		return zero, err
	}
	return asValue[T](k, v)
}

// Put registers the producer under this key.
func (k *ParamFactoryKey[T, A]) Put(l *Locator, provide ParamFactory[T, A]) error {
	return Put[T, A, ParamFactory[T, A]](l, k, provide)
}

// Get invokes the producer with arg and returns its result.
func (k *ParamFactoryKey[T, A]) Get(l *Locator, arg A) (T, error) {
	return Get[T, A, ParamFactory[T, A]](l, k, arg)
}

// GetOrNull is Get without the miss hook.
func (k *ParamFactoryKey[T, A]) GetOrNull(l *Locator, arg A) (v T, ok bool, err error) {
	return GetOrNull[T, A, ParamFactory[T, A]](l, k, arg)
}

// GetOrProvide invokes the producer with arg, registering it first if the
// key is absent and the scope predicate accepts s's scope.
func (k *ParamFactoryKey[T, A]) GetOrProvide(s *Scoped, allowed ScopePredicate, provide ParamFactory[T, A], arg A) (T, error) {
	return GetOrProvide[T, A, ParamFactory[T, A]](s, k, allowed, provide, arg)
}
