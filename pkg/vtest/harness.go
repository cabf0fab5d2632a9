package vtest

import (
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vango-dev/selectctx/pkg/runtime"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

// Harness drives a mounted component tree from a test.
type Harness struct {
	t    testing.TB
	root *runtime.Root
}

// Option configures a Harness.
type Option func(*runtime.Config)

// WithLogger routes runtime logs to logger. By default they are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runtime.Config) {
		c.Logger = logger
	}
}

// WithMaxPasses bounds the render passes of a single flush.
func WithMaxPasses(n int) Option {
	return func(c *runtime.Config) {
		c.MaxPasses = n
	}
}

// Mount mounts c on a fresh root and fails the test if the first render
// does not settle. The tree is unmounted when the test ends.
func Mount(t testing.TB, c vdom.Component, opts ...Option) *Harness {
	t.Helper()

	config := runtime.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&config)
	}

	h := &Harness{t: t, root: runtime.NewRoot(config)}
	if err := h.root.Mount(c); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(h.root.Unmount)
	return h
}

// Root returns the underlying root.
func (h *Harness) Root() *runtime.Root {
	return h.root
}

// Click runs the click handler of the element with the given data-testid.
func (h *Harness) Click(testID string) {
	h.t.Helper()

	node := h.Find(testID)
	if node == nil {
		h.t.Fatalf("click: no element with data-testid %q", testID)
	}
	handler, ok := vdom.Handler(node, "click").(func())
	if !ok {
		h.t.Fatalf("click: element %q has no func() click handler", testID)
	}
	if err := h.root.Dispatch(handler); err != nil {
		h.t.Fatalf("click %q: %v", testID, err)
	}
}

// Act runs fn as an event handler and flushes.
func (h *Harness) Act(fn func()) {
	h.t.Helper()
	if err := h.root.Dispatch(fn); err != nil {
		h.t.Fatalf("act: %v", err)
	}
}

// Flush re-renders whatever changed outside of Act or Click.
func (h *Harness) Flush() {
	h.t.Helper()
	if err := h.root.Flush(); err != nil {
		h.t.Fatalf("flush: %v", err)
	}
}

// Find returns the element with the given data-testid, or nil.
func (h *Harness) Find(testID string) *vdom.VNode {
	var found *vdom.VNode
	h.root.Walk(func(n *vdom.VNode) bool {
		if found != nil {
			return false
		}
		if n.Kind == vdom.KindElement && n.Props["data-testid"] == testID {
			found = n
			return false
		}
		return true
	})
	return found
}

// Text returns the concatenated text below the element with the given
// data-testid, including text rendered by nested components.
func (h *Harness) Text(testID string) string {
	h.t.Helper()

	node := h.Find(testID)
	if node == nil {
		h.t.Fatalf("text: no element with data-testid %q", testID)
	}

	var b strings.Builder
	for _, child := range node.Children {
		h.collectText(&b, child)
	}
	return b.String()
}

func (h *Harness) collectText(b *strings.Builder, n *vdom.VNode) {
	if n == nil {
		return
	}
	switch n.Kind {
	case vdom.KindText:
		b.WriteString(n.Text)
	case vdom.KindComponent:
		h.collectText(b, h.root.Resolve(n))
	default:
		for _, child := range n.Children {
			h.collectText(b, child)
		}
	}
}

// HTML returns the HTML of the mounted tree.
func (h *Harness) HTML() string {
	return h.root.HTML()
}

// Counter counts events such as renders. It is safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a zeroed counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Inc adds one.
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Load returns the current count.
func (c *Counter) Load() int {
	return int(c.n.Load())
}
