// Package vtest provides testing helpers for components.
//
// A Harness mounts a component on a runtime.Root and drives it the way a
// user would: clicking elements by their data-testid and reading back the
// rendered text. Every helper fails the test on error, so scenario tests
// stay linear.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter())
//	    h.Click("inc")
//	    if got := h.Text("count"); got != "1" {
//	        t.Errorf("count = %q, want 1", got)
//	    }
//	}
//
// # Render Counts
//
// Components can count their own renders with a Counter, which makes
// re-render suppression easy to assert:
//
//	renders := vtest.NewCounter()
//	view := vango.Pure(func() *vdom.VNode {
//	    renders.Inc()
//	    ...
//	})
//
// # Render Assertions
//
// Assert on the HTML of a static node without mounting it:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectNotContains(t, node, "Login")
package vtest
