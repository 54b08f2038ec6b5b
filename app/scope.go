package app

import "github.com/km-arc/go-locator/locator"

// Env is the demo application's scope label. The field is unexported, so the
// only values are the ones declared below: every valid scope is enumerable
// through Scopes.
type Env struct {
	name string
}

// ScopeName implements locator.Scope.
func (e Env) ScopeName() string { return e.name }

var (
	Production = Env{name: "production"}
	Staging    = Env{name: "staging"}
	Testing    = Env{name: "testing"}
)

// Scopes returns every valid application scope.
func Scopes() []locator.Scope {
	return []locator.Scope{Production, Staging, Testing}
}

// ScopeFor maps an APP_ENV value to a scope, defaulting to Production for
// anything unrecognized.
func ScopeFor(env string) locator.Scope {
	switch env {
	case Staging.name:
		return Staging
	case Testing.name:
		return Testing
	default:
		return Production
	}
}
