package locator

import (
	"bytes"
	"runtime"
	"strconv"
)

// Safety selects how a deferred value's computation is guarded against
// concurrent first access. It controls the computation only; entry existence
// is always established atomically by the registry.
type Safety int

const (
	// SafetySynchronized serializes computation to a single winner; other
	// goroutines block until it completes and then observe the cached
	// result. The default.
	SafetySynchronized Safety = iota

	// SafetyPublication lets concurrent first-callers compute independently;
	// the first completed result is published and later completions are
	// discarded in its favor.
	SafetyPublication

	// SafetyNone performs no guarding at all. The caller must serialize
	// access externally.
	SafetyNone
)

func (s Safety) String() string {
	switch s {
	case SafetySynchronized:
		return "synchronized"
	case SafetyPublication:
		return "publication"
	case SafetyNone:
		return "none"
	default:
		return "unknown"
	}
}

// goid returns the current goroutine's id, parsed from the runtime stack
// header ("goroutine N ["). Reentrancy detection needs a caller identity and
// Go exposes none; this is the standard fallback used by reentrancy-checking
// libraries. It is only consulted on a deferred value's first computation,
// never on the cached fast path.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return -1
	}
	id, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
