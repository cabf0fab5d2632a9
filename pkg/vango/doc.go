// Package vango provides the host reactive core that components render on.
//
// Every mounted component owns an Owner: a scope holding its hook slots,
// context values, effects and cleanups. While the runtime renders a
// component, that Owner is current on the goroutine and hooks find their
// state by call position.
//
// # Hooks
//
//	count := NewSignal(0)                       // state, re-renders readers on Set
//	total := UseMemo(func() int { ... }, items) // cached, keyed on Same deps
//	ref := UseRef(0)                            // mutable, no re-render
//	UseLayoutEffect(fn, On(dep))                // runs in the commit, children first
//	UseEffect(fn, nil)                          // runs after all layout effects
//	v := UseExternalSnapshot(subscribe, getSnapshot)
//
// # Identity
//
// "Did not change" always means Same: == for comparable values, closure
// identity for funcs and header identity for maps and slices.
//
// # Context
//
// Context[T] carries values down the Owner chain:
//
//	var Theme = CreateContext("light")
//	Theme.Provide("dark")  // in a parent render
//	Theme.Use()            // in any descendant
//
// # Thread Safety
//
// The tracking context is per-goroutine, so spawning goroutines requires
// explicit context propagation via WithOwner.
package vango
