package locator_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-locator/locator"
)

func TestLazy_ConcurrentFirstAccess_SingleComputation(t *testing.T) {
	l := locator.New()
	key := locator.NewLazy[*service]("svc")

	var calls atomic.Int32
	require.NoError(t, key.Put(l, func() (*service, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond) // widen the race window
		return &service{name: "shared"}, nil
	}))

	const workers = 32
	results := make([]*service, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := key.Get(l)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "provider must run at most once under synchronized mode")
	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i], "all callers must observe the same value")
	}
}

func TestLazy_PublicationMode_FirstStoreWins(t *testing.T) {
	l := locator.New(locator.WithDefaultSafety(locator.SafetyPublication))
	key := locator.NewLazy[*service]("svc")

	require.NoError(t, key.Put(l, func() (*service, error) {
		return &service{name: "raced"}, nil
	}))

	const workers = 16
	results := make([]*service, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := key.Get(l)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	// Computations may race, but repeated reads settle on the published value.
	settled, err := key.Get(l)
	require.NoError(t, err)
	again, err := key.Get(l)
	require.NoError(t, err)
	assert.Same(t, settled, again)
}

func TestLazy_PerKeySafetyOverridesLocatorDefault(t *testing.T) {
	// Locator default is publication; this key opts back into synchronized
	// and must still compute exactly once.
	l := locator.New(locator.WithDefaultSafety(locator.SafetyPublication))
	key := locator.NewLazy[*service]("svc", locator.WithSafety(locator.SafetySynchronized))

	var calls atomic.Int32
	require.NoError(t, key.Put(l, func() (*service, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return &service{}, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := key.Get(l)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestLazy_CircularDependency(t *testing.T) {
	l := locator.New()
	k1 := locator.NewLazy[*service]("k1")
	k2 := locator.NewLazy[*repository]("k2")

	cycle := true
	var k1Starts atomic.Int32

	require.NoError(t, k1.Put(l, func() (*service, error) {
		k1Starts.Add(1)
		if _, err := k2.Get(l); err != nil {
			return nil, err
		}
		return &service{name: "k1"}, nil
	}))
	require.NoError(t, k2.Put(l, func() (*repository, error) {
		if cycle {
			if _, err := k1.Get(l); err != nil {
				return nil, err
			}
		}
		return &repository{data: "k2"}, nil
	}))

	_, err := k1.Get(l)
	require.Error(t, err)
	assert.ErrorIs(t, err, locator.ErrCircularDependency)
	assert.Equal(t, int32(1), k1Starts.Load(), "the provider body must not be retried on cycle detection")

	// With the cycle removed, a retry of the outer key succeeds: the failed
	// attempt never marked the entry initialized.
	cycle = false
	v, err := k1.Get(l)
	require.NoError(t, err)
	assert.Equal(t, "k1", v.name)
	assert.Equal(t, int32(2), k1Starts.Load())

	// And the value is cached from here on.
	again, err := k1.Get(l)
	require.NoError(t, err)
	assert.Same(t, v, again)
	assert.Equal(t, int32(2), k1Starts.Load())
}

func TestLazy_SelfCycle(t *testing.T) {
	l := locator.New()
	key := locator.NewLazy[*service]("self")

	require.NoError(t, key.Put(l, func() (*service, error) {
		if _, err := key.Get(l); err != nil {
			return nil, err
		}
		return &service{}, nil
	}))

	_, err := key.Get(l)
	assert.ErrorIs(t, err, locator.ErrCircularDependency)
}

func TestLazy_CircularDetectionUnsynchronized(t *testing.T) {
	l := locator.New(locator.WithDefaultSafety(locator.SafetyNone))
	key := locator.NewLazy[*service]("self")

	require.NoError(t, key.Put(l, func() (*service, error) {
		if _, err := key.Get(l); err != nil {
			return nil, err
		}
		return &service{}, nil
	}))

	_, err := key.Get(l)
	assert.ErrorIs(t, err, locator.ErrCircularDependency)
}
