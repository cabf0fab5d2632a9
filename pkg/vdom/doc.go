// Package vdom provides the virtual node model used by the component runtime.
//
// VNode is the fundamental building block representing elements, text,
// fragments, components, and raw HTML. Props holds attributes and event
// handlers. Attr and EventHandler are used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    Button(OnClick(handler), Text("+1")),
//	    Counter(), // a Component becomes a KindComponent child
//	)
//
// # Components
//
// Func wraps a render function as a Component. Pure does the same but marks
// the component as skipping re-renders driven by its parent, the equivalent
// of a memoized component without props.
package vdom
