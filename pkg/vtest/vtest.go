package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/selectctx/pkg/render"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

// RenderToString renders a static node to HTML. Component nodes inside it
// render as nothing; mount the component with Mount to render those.
func RenderToString(node *vdom.VNode) string {
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that the rendered node contains expected.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	if html := RenderToString(node); !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered node does not contain
// unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	if html := RenderToString(node); strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectText asserts the text below the element with the given data-testid.
//
// Example:
//
//	h.Click("inc")
//	vtest.ExpectText(t, h, "count", "1")
func ExpectText(t testing.TB, h *Harness, testID, want string) {
	t.Helper()
	if got := h.Text(testID); got != want {
		t.Errorf("text of %q = %q, want %q", testID, got, want)
	}
}

// ExpectRenders asserts the value of a render counter.
func ExpectRenders(t testing.TB, name string, c *Counter, want int) {
	t.Helper()
	if got := c.Load(); got != want {
		t.Errorf("%s rendered %d times, want %d", name, got, want)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
