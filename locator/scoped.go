package locator

import "go.uber.org/zap"

// Scope is the immutable environment label a scoped locator carries.
// Applications typically define a small closed set of implementations so
// every valid scope is enumerable; Named covers the simple cases.
type Scope interface {
	ScopeName() string
}

// Named is a string-valued Scope.
type Named string

// ScopeName implements Scope.
func (n Named) ScopeName() string { return string(n) }

// ScopePredicate decides whether a scope may provision a key.
type ScopePredicate func(Scope) bool

// InScopes accepts exactly the listed scopes.
func InScopes(allowed ...Scope) ScopePredicate {
	return func(s Scope) bool {
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
		return false
	}
}

// AnyScope accepts every scope.
func AnyScope(Scope) bool { return true }

// ── Scoped ───────────────────────────────────────────────────────────────────

// Scoped is a Locator bound to a scope label at construction. The label is
// consulted only by GetOrProvide; plain Put and Get never look at it.
type Scoped struct {
	*Locator
	scope Scope
}

// NewScoped creates an empty scoped locator.
func NewScoped(scope Scope, opts ...Option) *Scoped {
	s := &Scoped{Locator: New(opts...), scope: scope}
	s.log = s.log.With(zap.String("scope", scope.ScopeName()))
	return s
}

// Scope returns the locator's environment label.
func (s *Scoped) Scope() Scope { return s.scope }

// GetOrProvide extracts k's value, deciding at most once what entry backs
// it: an existing entry is used as-is without consulting the predicate; an
// absent key is built from putParams when the predicate accepts the
// locator's scope, and routed through the invalid-scope hook otherwise
// (failing with ErrInvalidScope when no hook is installed). The decision and
// entry construction run atomically, so concurrent first-callers observe a
// single predicate evaluation and a single entry.
//
// The key kinds expose this as a method (LazyKey.GetOrProvide, ...); see the
// note on the generic operations in Locator.
func GetOrProvide[T, G, P any](s *Scoped, k Key[T, G, P], allowed ScopePredicate, putParams P, getParams G) (T, error) {
	e, err := s.GetOrProvideEntry(k, func() (Entry, error) {
		if allowed == nil || allowed(s.scope) {
			s.log.Debug("provisioning key", zap.Stringer("key", k))
			return k.NewEntry(s.Locator, putParams)
		}
		return s.invalidScopeEntry(k)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return extract(s.Locator, k, e, getParams)
}
