// Package selector shares one value with a component subtree and lets each
// component subscribe to a slice of it.
//
// A Store is declared once, a Provider puts a value into the tree and
// descendants select from it:
//
//	var Counter = selector.New(CounterState{}, selector.WithName("counter"))
//
//	func App() vango.Component {
//	    return vango.Func(func() *vango.VNode {
//	        count := vango.NewSignal(0)
//	        set := vango.UseMemo(func() func(func(int) int) { return count.Update })
//	        return Counter.Provider(CounterState{Count: count.Get(), SetCount: set},
//	            Display(),
//	            Buttons(),
//	        )
//	    })
//	}
//
//	func Display() vango.Component {
//	    return vango.Pure(func() *vango.VNode {
//	        n := selector.UseSelector(Counter, func(v CounterState) int { return v.Count }, nil)
//	        return vdom.Span(vdom.Textf("%d", n))
//	    })
//	}
//
// # Re-render rules
//
// Each mounted Provider owns a Cell. When the provider renders with a value
// that is not vango.Same as the published one, it publishes in its layout
// effect and every binding below it is told. A binding re-renders its
// component only when its derived value changes:
//
//   - the same raw value never re-runs the selector
//   - a new raw value runs the selector; if an EqualityFn reports the result
//     equal to the previous one, the previous one is kept
//   - without an EqualityFn every new derived value counts as a change
//
// Selectors that build a new pointer, map or slice on every call should be
// paired with ShallowEqual. Selectors returning plain structs need no
// equality function, since vango.Same compares struct fields.
//
// UseSnapshot gives event handlers the current value without subscribing
// the component at all.
//
// # Missing providers
//
// With vango.DevMode set, or a store built WithStrict(true), reading a store
// that has no provider above the reader panics with *MissingProviderError.
// Otherwise the reader gets the store default, never updates, and the miss
// is logged once per component and reported to the store's Observer.
package selector
