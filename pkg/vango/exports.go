package vango

import "github.com/vango-dev/selectctx/pkg/vdom"

// These re-exports let components be written against the vango package
// alone:
//
//     count := vango.NewSignal(0)
//     return vango.Func(func() *vango.VNode { ... })
//
// The elements themselves are still imported from vdom.

// Func wraps a render function as a Component.
//
// Example:
//
//	func Counter(initial int) vango.Component {
//	    return vango.Func(func() *vango.VNode {
//	        count := vango.NewSignal(initial)
//	        return Div(
//	            H1(Textf("Count: %d", count.Get())),
//	            Button(OnClick(func() { count.Update(inc) }), Text("+")),
//	        )
//	    })
//	}
func Func(render func() *vdom.VNode) vdom.Component {
	return vdom.Func(render)
}

// Pure wraps a render function as a Component that re-renders only when
// something it reads changes, never just because its parent re-rendered.
func Pure(render func() *vdom.VNode) vdom.Component {
	return vdom.Pure(render)
}

// Component is an alias for vdom.Component for convenience.
type Component = vdom.Component

// VNode is an alias for vdom.VNode for convenience.
type VNode = vdom.VNode
