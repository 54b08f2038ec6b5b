package locator

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-locator/lifecycle"
)

func TestRegistry_ComputeIfAbsent_SingleSupplierInvocation(t *testing.T) {
	r := newRegistry()

	var calls atomic.Int32
	supply := func() (Entry, error) {
		calls.Add(1)
		time.Sleep(2 * time.Millisecond)
		return &singletonEntry{value: "v"}, nil
	}

	const workers = 32
	results := make([]Entry, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			e, err := r.computeIfAbsent("k", supply)
			assert.NoError(t, err)
			results[i] = e
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestRegistry_ComputeIfAbsent_ErrorStoresNothing(t *testing.T) {
	r := newRegistry()

	boom := errors.New("supply failed")
	_, err := r.computeIfAbsent("k", func() (Entry, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.size())

	e, err := r.computeIfAbsent("k", func() (Entry, error) {
		return &singletonEntry{value: "second"}, nil
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 1, r.size())
}

func TestRegistry_PutReturnsPrevious(t *testing.T) {
	r := newRegistry()
	a := &singletonEntry{value: "a"}
	b := &singletonEntry{value: "b"}

	assert.Nil(t, r.put("k", a))
	assert.Same(t, a, r.put("k", b))

	got, ok := r.get("k")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestLazyEntry_StateTransitions(t *testing.T) {
	e := newLazyEntry("test", func() (any, error) { return "v", nil }, SafetySynchronized)

	assert.False(t, e.initialized(), "entry starts unconstructed")
	v, err := e.force()
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.True(t, e.initialized())
}

func TestLazyEntry_FailureResetsToUnconstructed(t *testing.T) {
	fail := true
	e := newLazyEntry("test", func() (any, error) {
		if fail {
			return nil, errors.New("nope")
		}
		return "v", nil
	}, SafetySynchronized)

	_, err := e.force()
	require.Error(t, err)
	assert.False(t, e.initialized())

	fail = false
	v, err := e.force()
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestLazyEntry_SynchronizedWaiterSurvivesLoserFailure(t *testing.T) {
	// First computation fails while another goroutine waits; the waiter
	// takes over and succeeds.
	var calls atomic.Int32
	release := make(chan struct{})
	e := newLazyEntry("test", func() (any, error) {
		n := calls.Add(1)
		if n == 1 {
			<-release
			return nil, errors.New("first attempt fails")
		}
		return "second", nil
	}, SafetySynchronized)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = e.force()
	}()

	// Give the first goroutine time to enter the provider, then start the
	// waiter and unblock the failure.
	time.Sleep(5 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := e.force()
		assert.NoError(t, err)
		assert.Equal(t, "second", v)
	}()
	time.Sleep(5 * time.Millisecond)
	close(release)

	wg.Wait()
	<-done
	assert.Equal(t, int32(2), calls.Load())
}

func TestLifecycleEntry_ObserverBookkeeping(t *testing.T) {
	e := newLifecycleEntry("test", func() (any, error) { return "v", nil },
		SafetySynchronized, lifecycle.StateStarted)

	a := lifecycle.NewOwner(lifecycle.StateStarted)
	b := lifecycle.NewOwner(lifecycle.StateStarted)

	_, err := e.get(a)
	require.NoError(t, err)
	_, err = e.get(b)
	require.NoError(t, err)
	assert.Equal(t, 2, e.observerCount())

	a.MoveTo(lifecycle.StateCreated)
	assert.Equal(t, 1, e.observerCount())

	// Repeated retrieval by a tracked observer does not double-count.
	_, err = e.get(b)
	require.NoError(t, err)
	assert.Equal(t, 1, e.observerCount())

	b.MoveTo(lifecycle.StateCreated)
	assert.Equal(t, 0, e.observerCount())
}

func TestKeyString_IdentifiesKindTypeAndName(t *testing.T) {
	lazy := NewLazy[string]("greeting")
	assert.Contains(t, lazy.String(), "LazyKey")
	assert.Contains(t, lazy.String(), "string")
	assert.Contains(t, lazy.String(), "greeting")

	class := NewClassLazy[int]()
	assert.Contains(t, class.String(), "ClassLazyKey")
	assert.Contains(t, class.String(), "int")
}

func TestGoid_StableWithinGoroutine(t *testing.T) {
	assert.Equal(t, goid(), goid())

	other := make(chan int64, 1)
	go func() { other <- goid() }()
	assert.NotEqual(t, goid(), <-other)
}
