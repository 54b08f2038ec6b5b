package lifecycle

import "sync"

// State is an ordered activity level. Higher values are "more active";
// comparisons against a minimum threshold use plain < / >=.
type State int

const (
	StateDestroyed State = iota
	StateInitialized
	StateCreated
	StateStarted
	StateResumed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDestroyed:
		return "destroyed"
	case StateInitialized:
		return "initialized"
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateResumed:
		return "resumed"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s meets the min threshold.
func (s State) AtLeast(min State) bool { return s >= min }

// Observer is the narrow contract a lifecycle-scoped entry needs from its
// host: a readable current state and change notifications. Any UI or
// request-scope lifecycle can be adapted to it.
type Observer interface {
	// CurrentState returns the observer's present activity level.
	CurrentState() State

	// Subscribe registers fn to be called on every state transition and
	// returns a cancel func that removes the subscription. Callbacks are
	// delivered synchronously from the goroutine driving the transition.
	Subscribe(fn func(State)) (cancel func())
}

// ── Owner ────────────────────────────────────────────────────────────────────

// Owner is a manually-driven Observer. Hosts (and tests) construct one and
// call MoveTo as their component moves through its lifecycle.
//
//	owner := lifecycle.NewOwner(lifecycle.StateStarted)
//	defer owner.MoveTo(lifecycle.StateDestroyed)
type Owner struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

// NewOwner creates an Owner in the given initial state.
func NewOwner(initial State) *Owner {
	return &Owner{state: initial, subs: make(map[int]func(State))}
}

// CurrentState implements Observer.
func (o *Owner) CurrentState() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe implements Observer.
func (o *Owner) Subscribe(fn func(State)) (cancel func()) {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// MoveTo transitions the Owner to s and notifies subscribers.
// Notification is synchronous; subscribers may cancel themselves from
// within their callback.
func (o *Owner) MoveTo(s State) {
	o.mu.Lock()
	if o.state == s {
		o.mu.Unlock()
		return
	}
	o.state = s
	fns := make([]func(State), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
