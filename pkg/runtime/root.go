package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
	"github.com/vango-dev/selectctx/pkg/render"
	"github.com/vango-dev/selectctx/pkg/vango"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

// ErrNotMounted is returned by Root operations that need a mounted tree.
var ErrNotMounted = errors.New("runtime: no component mounted")

// Root mounts a component tree and keeps it consistent with the state it
// reads. All operations on a Root are serialized; event handlers, renders
// and effects never run concurrently for one Root.
type Root struct {
	mu     sync.Mutex
	config Config
	logger *slog.Logger

	// owner is the scope above the root component.
	owner *vango.Owner

	rootNode *vdom.VNode
	root     *ComponentInstance

	// byNode maps each component node of the current trees to its instance.
	byNode map[*vdom.VNode]*ComponentInstance

	renders int64
	passes  int64
	flushes int64
}

var _ render.Resolver = (*Root)(nil)

// Stats contains root statistics.
type Stats struct {
	Components int
	Renders    int64
	Passes     int64
	Flushes    int64
}

// NewRoot creates an empty Root.
func NewRoot(config Config) *Root {
	config = config.withDefaults()
	return &Root{
		config: config,
		logger: config.Logger.With("component", "runtime"),
		owner:  vango.NewOwner(nil),
		byNode: make(map[*vdom.VNode]*ComponentInstance),
	}
}

// Owner returns the scope above the root component. Values provided on it
// are visible to the whole tree.
func (r *Root) Owner() *vango.Owner {
	return r.owner
}

// Mount renders c as the root of the tree and flushes until the tree is
// consistent. A previously mounted tree is unmounted first.
func (r *Root) Mount(c vdom.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.root != nil {
		r.unmountLocked()
	}

	r.rootNode = &vdom.VNode{Kind: vdom.KindComponent, Comp: c}
	err := r.guard("mount", func() error {
		r.root = newComponentInstance(r.rootNode, nil, r)
		r.track(r.root)
		r.renderInstance(r.root)
		return r.flushLocked()
	})
	if err == nil {
		r.logger.Info("mounted root component", "components", len(r.byNode))
	}
	return err
}

// Dispatch runs fn as an event handler and then flushes. Signal writes made
// by fn are batched.
func (r *Root) Dispatch(fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.root == nil {
		return ErrNotMounted
	}

	return r.guard("dispatch", func() error {
		vango.WithOwner(r.owner, func() {
			vango.Batch(fn)
		})
		return r.flushLocked()
	})
}

// Flush re-renders dirty components and runs pending effects until the tree
// is consistent. Changes made outside Dispatch (from another goroutine, or
// directly on a store) become visible after Flush.
func (r *Root) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.root == nil {
		return ErrNotMounted
	}
	return r.guard("flush", r.flushLocked)
}

// Unmount disposes the mounted tree, running all effect cleanups.
func (r *Root) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unmountLocked()
}

func (r *Root) unmountLocked() {
	if r.root == nil {
		return
	}
	r.root.Dispose()
	r.root = nil
	r.rootNode = nil
	r.logger.Info("unmounted root component")
}

// HTML renders the current tree to HTML.
func (r *Root) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rootNode == nil {
		return ""
	}
	html, err := render.NewRenderer(render.RendererConfig{Resolver: r}).RenderToString(r.rootNode)
	if err != nil {
		r.logger.Error("render html", "error", err)
	}
	return html
}

// Walk visits the current tree depth-first in document order, descending
// through component nodes into the tree their instance last rendered.
// Returning false from fn skips the node's children.
func (r *Root) Walk(fn func(*vdom.VNode) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.walk(r.rootNode, fn)
}

func (r *Root) walk(node *vdom.VNode, fn func(*vdom.VNode) bool) {
	if node == nil {
		return
	}
	if node.Kind == vdom.KindComponent {
		r.walk(r.Resolve(node), fn)
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		r.walk(child, fn)
	}
}

// Resolve implements render.Resolver.
func (r *Root) Resolve(node *vdom.VNode) *vdom.VNode {
	if inst, ok := r.byNode[node]; ok {
		return inst.LastTree()
	}
	return nil
}

// Instances returns the mounted component instances in document order.
func (r *Root) Instances() []*ComponentInstance {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*ComponentInstance
	var visit func(c *ComponentInstance)
	visit = func(c *ComponentInstance) {
		out = append(out, c)
		for _, child := range c.Children {
			visit(child)
		}
	}
	if r.root != nil {
		visit(r.root)
	}
	return out
}

// Stats returns root statistics.
func (r *Root) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Components: len(r.byNode),
		Renders:    r.renders,
		Passes:     r.passes,
		Flushes:    r.flushes,
	}
}

// flushLocked alternates commits and render passes until nothing is dirty
// and no effect is pending.
func (r *Root) flushLocked() error {
	r.flushes++
	for pass := 0; ; pass++ {
		r.owner.RunPendingEffects()

		if !r.renderDirty(r.root) {
			if r.owner.HasPendingEffects() {
				continue
			}
			r.logger.Debug("flush complete", "passes", pass)
			return nil
		}
		r.passes++

		if pass+1 >= r.config.MaxPasses {
			return vangoerrors.New("E103").
				WithDetail(fmt.Sprintf("tree still dirty after %d render passes", r.config.MaxPasses))
		}
	}
}

// renderDirty renders every dirty instance at or below c, top-most first.
// It reports whether anything rendered.
func (r *Root) renderDirty(c *ComponentInstance) bool {
	if c == nil {
		return false
	}
	if c.IsDirty() {
		r.renderInstance(c)
		return true
	}
	rendered := false
	for _, child := range append([]*ComponentInstance(nil), c.Children...) {
		if r.renderDirty(child) {
			rendered = true
		}
	}
	return rendered
}

// renderInstance renders c and reconciles its child components.
func (r *Root) renderInstance(c *ComponentInstance) {
	tree := c.Render()
	r.renders++
	r.reconcile(c, tree)
}

// reconcile matches the component nodes of tree against the existing
// children of parent. Keyed nodes match by key, unkeyed nodes by position
// among the unkeyed children. Matched non-pure children re-render with the
// parent, unless the parent handed back the very node they were matched to.
// Pure children re-render only when dirty. Unmatched children are disposed.
func (r *Root) reconcile(parent *ComponentInstance, tree *vdom.VNode) {
	var nodes []*vdom.VNode
	vdom.Walk(tree, func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindComponent {
			nodes = append(nodes, n)
			return false
		}
		return true
	})

	old := parent.Children
	used := make([]bool, len(old))
	keyed := make(map[string]int)
	var unkeyed []int
	for i, inst := range old {
		if key := inst.node.Key; key != "" {
			keyed[key] = i
		} else {
			unkeyed = append(unkeyed, i)
		}
	}

	next := make([]*ComponentInstance, 0, len(nodes))
	for _, n := range nodes {
		var inst *ComponentInstance
		if n.Key != "" {
			if i, ok := keyed[n.Key]; ok && !used[i] {
				inst, used[i] = old[i], true
			}
		} else if len(unkeyed) > 0 {
			i := unkeyed[0]
			unkeyed = unkeyed[1:]
			inst, used[i] = old[i], true
		}

		if inst == nil {
			inst = newComponentInstance(n, parent, r)
			r.track(inst)
			next = append(next, inst)
			r.renderInstance(inst)
			continue
		}

		unchanged := inst.node == n
		r.rebind(inst, n)
		next = append(next, inst)
		if inst.IsDirty() || (!unchanged && !inst.Pure()) {
			r.renderInstance(inst)
		} else {
			r.renderDirty(inst)
		}
	}

	for i, inst := range old {
		if !used[i] {
			inst.Dispose()
		}
	}
	parent.Children = next
}

// rebind points inst at the node of its parent's latest render.
func (r *Root) rebind(inst *ComponentInstance, node *vdom.VNode) {
	if inst.node == node {
		return
	}
	r.forget(inst)
	inst.node = node
	inst.Component = node.Comp
	r.track(inst)
}

func (r *Root) track(inst *ComponentInstance) {
	r.byNode[inst.node] = inst
}

func (r *Root) forget(inst *ComponentInstance) {
	if r.byNode[inst.node] == inst {
		delete(r.byNode, inst.node)
	}
}

// guard converts a panic raised by fn into an E104 error.
func (r *Root) guard(op string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("render panic",
				"op", op,
				"panic", p,
				"stack", string(debug.Stack()))

			ve := vangoerrors.New("E104").WithDetail(fmt.Sprintf("panic during %s: %v", op, p))
			if pe, ok := p.(error); ok {
				ve = ve.Wrap(pe)
			}
			err = ve
		}
	}()
	return fn()
}
