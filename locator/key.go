package locator

import (
	"fmt"
	"reflect"

	"github.com/km-arc/go-locator/lifecycle"
)

// Entry is the opaque stored record a key kind creates at registration.
// Its concrete shape is private to the kind that built it; the locator only
// hands it back to key extraction logic and to the overridable value hooks.
type Entry any

// None is the GetParams type for keys retrieved without parameters.
type None struct{}

// AnyKey is the untyped view of a key, used by the registry, the locator
// hooks, and error messages.
type AnyKey interface {
	// ID returns the registry identity. Per-instance kinds return a value
	// unique to the key instance; class-identity kinds return a value
	// derived from the served type only.
	ID() any

	// ValueType returns the served type T.
	ValueType() reflect.Type

	// MockPerCall reports whether a testing locator should synthesize a
	// fresh substitute on every retrieval (factory kinds) instead of
	// reusing one.
	MockPerCall() bool

	fmt.Stringer
}

// Key is the capability contract every key kind implements: build a stored
// entry from registration parameters P, and extract a T from a stored entry
// given retrieval parameters G.
//
// New kinds may be defined outside this package; a kind that should support
// class-identity aliasing must make its entries implement ValueEntry.
type Key[T, G, P any] interface {
	AnyKey

	// NewEntry builds the stored entry for registration parameters params.
	NewEntry(l *Locator, params P) (Entry, error)

	// Value extracts the served value from e given retrieval parameters.
	Value(l *Locator, e Entry, params G) (T, error)
}

// ValueEntry is the shared capability of entry shapes that can yield their
// value without retrieval parameters (lazy and singleton entries). It is what
// lets a class-identity key extract from an entry created by a different
// kind.
type ValueEntry interface {
	// EntryValue resolves and returns the stored value, computing it first
	// if the entry defers computation.
	EntryValue() (any, error)
}

// ── Key options ──────────────────────────────────────────────────────────────

// KeyOption tunes a key kind at construction time.
type KeyOption func(*keyConfig)

type keyConfig struct {
	safety   *Safety
	minState *lifecycle.State
}

// WithSafety overrides the locator-wide default Safety for this key's
// deferred computation. Meaningful for lazy and lifecycle kinds.
func WithSafety(s Safety) KeyOption {
	return func(c *keyConfig) { c.safety = &s }
}

// WithMinState sets the minimum observer activity a lifecycle key accepts at
// retrieval. Defaults to lifecycle.StateStarted.
func WithMinState(s lifecycle.State) KeyOption {
	return func(c *keyConfig) { c.minState = &s }
}

func (c *keyConfig) safetyOr(def Safety) Safety {
	if c.safety != nil {
		return *c.safety
	}
	return def
}

func (c *keyConfig) minStateOr(def lifecycle.State) lifecycle.State {
	if c.minState != nil {
		return *c.minState
	}
	return def
}

// ── keyBase ──────────────────────────────────────────────────────────────────

// keyBase carries the identity and formatting shared by the built-in kinds.
// Identity is the pointer to the embedded id cell, so every constructed key
// is distinct regardless of name or served type.
type keyBase[T any] struct {
	id   *idCell
	kind string
	name string
}

type idCell struct{ _ byte }

func newKeyBase[T any](kind, name string) keyBase[T] {
	return keyBase[T]{id: new(idCell), kind: kind, name: name}
}

func (b *keyBase[T]) ID() any { return b.id }

func (b *keyBase[T]) ValueType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (b *keyBase[T]) MockPerCall() bool { return false }

func (b *keyBase[T]) String() string {
	return fmt.Sprintf("%s[%s](%s)", b.kind, reflect.TypeOf((*T)(nil)).Elem(), b.name)
}

// wrongEntry reports an entry shape the key cannot extract from. Reaching it
// means a foreign entry landed under this key's identity.
func wrongEntry[T any](k AnyKey, e Entry) (T, error) {
	var zero T
	return zero, fmt.Errorf("locator: %s cannot extract from entry of type %T", k, e)
}

// asValue asserts an extracted value to the key's served type.
func asValue[T any](k AnyKey, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("locator: %s resolved %T, want %s", k, v, k.ValueType())
	}
	return t, nil
}
