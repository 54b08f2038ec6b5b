// Package locator provides a typed service locator: a heterogeneous registry
// where every key carries the type of the value it serves, and the key's kind
// encodes its lifecycle policy.
//
// # Overview
//
// Application code registers providers under typed keys and resolves them
// later without a code-generating DI framework. A key's kind decides when and
// how often its provider runs:
//
//   - Lazy: provider runs once, on first Get, and the result is cached
//   - Singleton: value supplied eagerly at Put
//   - Factory: provider runs on every Get, optionally parameterized
//   - Lifecycle: value cached while at least one observer stays active
//   - Class: identity overlay, keys for the same served type collide
//     whether declared lazy or singleton
//
// # Keys and values
//
// Keys are generic structs, so registration and retrieval are fully typed
// methods on the key itself:
//
//	var Clock = locator.NewLazy[*app.Clock]("clock")
//
//	l := locator.New()
//	err := Clock.Put(l, func() (*app.Clock, error) {
//	    return app.NewClock(), nil
//	})
//	clock, err := Clock.Get(l)
//
// Two separately-constructed keys of the same kind are distinct even when
// they serve the same type; use the class-identity kinds (NewClassLazy,
// NewClassSingleton) when identity should follow the served type instead.
//
// # Scopes
//
// A Scoped locator carries an immutable environment label. GetOrProvide
// registers a key on first use only when a caller-supplied predicate accepts
// that label; an already-registered key is returned without consulting the
// predicate again:
//
//	s := locator.NewScoped(locator.Named("production"))
//	v, err := Clock.GetOrProvide(s,
//	    locator.InScopes(locator.Named("production")),
//	    func() (*app.Clock, error) { return app.NewClock(), nil })
//
// # Testing
//
// NewTesting builds a locator that substitutes a mock for every missing or
// scope-rejected key, delegating actual mock construction to a caller
// supplied SubstituteFunc. NewSimple / NewSimpleTesting offer a narrower
// facade keyed purely by served type, hiding key kinds entirely.
//
// # Concurrency
//
// Any number of goroutines may use one locator concurrently. Entry creation
// is atomic per key; lazy value computation is serialized to a single winner
// under the default SafetySynchronized mode. See Safety for the alternatives.
package locator
