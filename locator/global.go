package locator

import (
	"errors"
	"sync"
)

// The process-wide locator. Consuming applications that want a single shared
// locator install it here once at bootstrap; the single-initialization check
// turns an accidental second bootstrap into an explicit failure instead of a
// silent replacement.
var (
	globalMu   sync.Mutex
	global     *Scoped
	globalTest bool
)

// ErrGlobalAlreadySet is returned by SetGlobal when a global locator is
// already installed.
var ErrGlobalAlreadySet = errors.New("locator: global locator already initialized")

// SetGlobal installs l as the process-wide locator. It fails if one is
// already installed, unless the current one was installed with
// SetGlobalForTesting.
func SetGlobal(l *Scoped) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil && !globalTest {
		return ErrGlobalAlreadySet
	}
	global = l
	globalTest = false
	return nil
}

// SetGlobalForTesting installs l as the process-wide locator, replacing any
// current one. Later SetGlobal and SetGlobalForTesting calls may replace it
// again.
func SetGlobalForTesting(l *Scoped) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
	globalTest = true
}

// Global returns the process-wide locator. It panics when none is installed;
// resolving dependencies before bootstrap is a programming error.
func Global() *Scoped {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		panic("locator: global locator not initialized; call SetGlobal first")
	}
	return global
}

// ResetGlobal clears the process-wide locator. Test teardown only.
func ResetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
	globalTest = false
}
