package locator_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-locator/locator"
)

// substitute builds zero-value instances for the served type, standing in
// for whatever mocking library an application would plug in.
func substitute(t reflect.Type) any {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}

func TestTesting_MissYieldsMock(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewLazy[*service]("svc")

	v, err := key.Get(s.Locator)
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestTesting_MockReusedAcrossCalls(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewLazy[*service]("svc")

	a, err := key.Get(s.Locator)
	require.NoError(t, err)
	b, err := key.Get(s.Locator)
	require.NoError(t, err)
	assert.Same(t, a, b, "ordinary kinds reuse one synthesized substitute")
}

func TestTesting_FactoryMockFreshPerCall(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewFactory[*service]("svc")

	a, err := key.Get(s.Locator)
	require.NoError(t, err)
	b, err := key.Get(s.Locator)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "factory kinds regenerate the substitute per retrieval")
}

func TestTesting_InvalidScopeYieldsMock(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewLazy[*service]("svc")

	var provided bool
	v, err := key.GetOrProvide(s, locator.InScopes(scopeProd), func() (*service, error) {
		provided = true
		return &service{name: "real"}, nil
	})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, provided, "the real provider must not run when the scope is rejected")
	assert.NotEqual(t, "real", v.name)

	// Same mock on repeated calls.
	again, err := key.GetOrProvide(s, locator.InScopes(scopeProd), func() (*service, error) {
		return &service{name: "real"}, nil
	})
	require.NoError(t, err)
	assert.Same(t, v, again)
}

func TestTesting_InvalidScopeFactoryMockDistinct(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewFactory[*service]("svc")

	provide := func() (*service, error) { return &service{name: "real"}, nil }
	a, err := key.GetOrProvide(s, locator.InScopes(scopeProd), provide)
	require.NoError(t, err)
	b, err := key.GetOrProvide(s, locator.InScopes(scopeProd), provide)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestTesting_AllowedScopeStillProvidesRealValue(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewLazy[*service]("svc")

	v, err := key.GetOrProvide(s, locator.InScopes(scopeTest), func() (*service, error) {
		return &service{name: "real"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "real", v.name)
}

func TestTesting_ReRegistrationAllowed(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewSingleton[*service]("svc")

	require.NoError(t, key.Put(s.Locator, &service{name: "first"}))
	require.NoError(t, key.Put(s.Locator, &service{name: "second"}))

	v, err := key.Get(s.Locator)
	require.NoError(t, err)
	assert.Equal(t, "second", v.name)
}

func TestTesting_PutOverridesEarlierMock(t *testing.T) {
	s := locator.NewTesting(scopeTest, substitute)
	key := locator.NewSingleton[*service]("svc")

	mock, err := key.Get(s.Locator)
	require.NoError(t, err)

	real := &service{name: "real"}
	require.NoError(t, key.Put(s.Locator, real))

	v, err := key.Get(s.Locator)
	require.NoError(t, err)
	assert.Same(t, real, v)
	assert.NotSame(t, mock, v)
}
