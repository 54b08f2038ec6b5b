package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-locator/lifecycle"
)

func TestState_Ordering(t *testing.T) {
	tests := []struct {
		name string
		s    lifecycle.State
		min  lifecycle.State
		want bool
	}{
		{"started meets started", lifecycle.StateStarted, lifecycle.StateStarted, true},
		{"resumed meets started", lifecycle.StateResumed, lifecycle.StateStarted, true},
		{"created below started", lifecycle.StateCreated, lifecycle.StateStarted, false},
		{"destroyed below everything", lifecycle.StateDestroyed, lifecycle.StateInitialized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.AtLeast(tt.min))
		})
	}
}

func TestOwner_MoveToNotifiesSubscribers(t *testing.T) {
	owner := lifecycle.NewOwner(lifecycle.StateCreated)

	var seen []lifecycle.State
	cancel := owner.Subscribe(func(s lifecycle.State) { seen = append(seen, s) })
	defer cancel()

	owner.MoveTo(lifecycle.StateStarted)
	owner.MoveTo(lifecycle.StateResumed)

	assert.Equal(t, []lifecycle.State{lifecycle.StateStarted, lifecycle.StateResumed}, seen)
	assert.Equal(t, lifecycle.StateResumed, owner.CurrentState())
}

func TestOwner_MoveToSameStateIsNoop(t *testing.T) {
	owner := lifecycle.NewOwner(lifecycle.StateStarted)

	calls := 0
	cancel := owner.Subscribe(func(lifecycle.State) { calls++ })
	defer cancel()

	owner.MoveTo(lifecycle.StateStarted)
	assert.Equal(t, 0, calls)
}

func TestOwner_CancelStopsNotifications(t *testing.T) {
	owner := lifecycle.NewOwner(lifecycle.StateCreated)

	calls := 0
	cancel := owner.Subscribe(func(lifecycle.State) { calls++ })

	owner.MoveTo(lifecycle.StateStarted)
	cancel()
	owner.MoveTo(lifecycle.StateResumed)

	assert.Equal(t, 1, calls)
}

func TestOwner_SubscriberMayCancelDuringCallback(t *testing.T) {
	owner := lifecycle.NewOwner(lifecycle.StateStarted)

	calls := 0
	var cancel func()
	cancel = owner.Subscribe(func(lifecycle.State) {
		calls++
		cancel()
	})

	owner.MoveTo(lifecycle.StateCreated)
	owner.MoveTo(lifecycle.StateStarted)

	assert.Equal(t, 1, calls)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "started", lifecycle.StateStarted.String())
	assert.Equal(t, "destroyed", lifecycle.StateDestroyed.String())
	assert.Equal(t, "unknown", lifecycle.State(99).String())
}
