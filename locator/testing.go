package locator

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// SubstituteFunc produces a stand-in value for the given type. It is the
// single capability the testing locator needs from a mocking library; wire
// in whichever one the embedding project uses.
type SubstituteFunc func(t reflect.Type) any

// mockEntry backs a key the testing locator could not resolve normally. For
// ordinary kinds one substitute is synthesized and reused; for factory kinds
// (MockPerCall) a fresh substitute is produced on every retrieval.
type mockEntry struct {
	typ     reflect.Type
	create  SubstituteFunc
	perCall bool

	once   sync.Once
	cached any
}

func newMockEntry(k AnyKey, create SubstituteFunc) *mockEntry {
	return &mockEntry{
		typ:     k.ValueType(),
		create:  create,
		perCall: k.MockPerCall(),
	}
}

func (m *mockEntry) value() any {
	if m.perCall {
		return m.create(m.typ)
	}
	m.once.Do(func() { m.cached = m.create(m.typ) })
	return m.cached
}

// NewTesting creates a scoped locator for tests: re-registration is always
// allowed, and both the miss and invalid-scope paths synthesize a mock entry
// through create instead of failing. Extraction of mock entries bypasses
// key-kind dispatch entirely.
//
//	s := locator.NewTesting(locator.Named("test"), func(t reflect.Type) any {
//	    return mocks.For(t)
//	})
func NewTesting(scope Scope, create SubstituteFunc, opts ...Option) *Scoped {
	s := NewScoped(scope, append([]Option{WithReRegistration()}, opts...)...)

	substitute := func(k AnyKey) (Entry, error) {
		s.log.Debug("substituting mock", zap.Stringer("key", k))
		return newMockEntry(k, create), nil
	}
	s.onMiss = substitute
	s.onInvalidScope = substitute
	s.getValue = func(_ AnyKey, e Entry) (any, bool) {
		if m, ok := e.(*mockEntry); ok {
			return m.value(), true
		}
		return nil, false
	}
	return s
}
