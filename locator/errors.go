package locator

import (
	"errors"
	"fmt"
)

// Failure conditions surfaced by locator operations. All are returned
// synchronously to the calling operation and can be matched with errors.Is.
var (
	// ErrDuplicateRegistration: Put on an already-populated key while the
	// locator is not in re-registration mode.
	ErrDuplicateRegistration = errors.New("locator: key already registered")

	// ErrNotRegistered: Get on a key with no entry and no recovering
	// miss hook.
	ErrNotRegistered = errors.New("locator: key not registered")

	// ErrInvalidScope: GetOrProvide rejected by the scope predicate with no
	// prior entry and no recovering invalid-scope hook.
	ErrInvalidScope = errors.New("locator: scope not allowed for key")

	// ErrCircularDependency: a provider re-entered retrieval of the key it
	// is still constructing. Never recovered automatically.
	ErrCircularDependency = errors.New("locator: circular dependency")

	// ErrInvalidLifecycleState: lifecycle-scoped retrieval with an observer
	// already below the key's minimum activity threshold.
	ErrInvalidLifecycleState = errors.New("locator: observer below minimum lifecycle state")
)

func keyError(sentinel error, k AnyKey) error {
	return fmt.Errorf("%w: %s", sentinel, k)
}
