package locator

// singletonEntry stores an eagerly-supplied value. Retrieval is a pure read.
type singletonEntry struct {
	value any
}

// EntryValue implements ValueEntry for class-identity retrieval.
func (e *singletonEntry) EntryValue() (any, error) { return e.value, nil }

// NewValueEntry returns an entry holding an already-resolved value. Miss and
// invalid-scope hooks use it to substitute a concrete value for a key; any
// kind whose extraction accepts the ValueEntry capability can read it.
func NewValueEntry(v any) Entry { return &singletonEntry{value: v} }

// SingletonKey registers a pre-built value at Put time. Identity is per key
// instance.
type SingletonKey[T any] struct {
	keyBase[T]
}

// NewSingleton creates a singleton key serving T.
func NewSingleton[T any](name string) *SingletonKey[T] {
	return &SingletonKey[T]{keyBase: newKeyBase[T]("SingletonKey", name)}
}

// NewEntry implements Key.
func (k *SingletonKey[T]) NewEntry(_ *Locator, value T) (Entry, error) {
	return &singletonEntry{value: value}, nil
}

// Value implements Key. Entries synthesized by hooks are accepted through
// the ValueEntry capability.
func (k *SingletonKey[T]) Value(_ *Locator, e Entry, _ None) (T, error) {
	return classValue[T](k, e)
}

// Put registers the value under this key.
func (k *SingletonKey[T]) Put(l *Locator, value T) error {
	return Put[T, None, T](l, k, value)
}

// Get retrieves the registered value.
func (k *SingletonKey[T]) Get(l *Locator) (T, error) {
	return Get[T, None, T](l, k, None{})
}

// GetOrNull is Get without the miss hook; ok is false when the key has no
// entry.
func (k *SingletonKey[T]) GetOrNull(l *Locator) (v T, ok bool, err error) {
	return GetOrNull[T, None, T](l, k, None{})
}

// GetOrProvide retrieves the value, registering it first if the key is
// absent and the scope predicate accepts s's scope.
func (k *SingletonKey[T]) GetOrProvide(s *Scoped, allowed ScopePredicate, value T) (T, error) {
	return GetOrProvide[T, None, T](s, k, allowed, value, None{})
}
