package runtime

import (
	"fmt"
	"sync/atomic"

	"github.com/vango-dev/selectctx/pkg/vango"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

// ComponentInstance represents a mounted component with its state.
// It holds the component's owner scope and the tree of its last render.
type ComponentInstance struct {
	// InstanceID is the unique instance identifier.
	InstanceID string

	// Component is the component being rendered. It is replaced with the
	// component carried by the parent's latest render.
	Component vdom.Component

	// Owner holds the hook state of this instance.
	Owner *vango.Owner

	// Parent is the parent component instance (nil for root).
	Parent *ComponentInstance

	// Children are child component instances in document order.
	Children []*ComponentInstance

	// node is the component node of the parent's tree this instance was
	// matched to.
	node *vdom.VNode

	// dirty indicates the component needs re-rendering.
	dirty atomic.Bool

	// renders counts completed renders.
	renders atomic.Int64

	// root is the owning root.
	root *Root

	// lastTree is the last rendered VNode tree.
	lastTree *vdom.VNode
}

var _ vango.Listener = (*ComponentInstance)(nil)

// componentIDCounter is used to generate unique component IDs.
var componentIDCounter atomic.Uint64

// generateComponentID generates a unique component ID.
func generateComponentID() string {
	id := componentIDCounter.Add(1)
	return fmt.Sprintf("c%d", id)
}

// newComponentInstance creates a new ComponentInstance.
func newComponentInstance(node *vdom.VNode, parent *ComponentInstance, root *Root) *ComponentInstance {
	var parentOwner *vango.Owner
	if parent != nil {
		parentOwner = parent.Owner
	} else if root != nil {
		parentOwner = root.owner
	}

	return &ComponentInstance{
		InstanceID: generateComponentID(),
		Component:  node.Comp,
		Owner:      vango.NewOwner(parentOwner),
		Parent:     parent,
		node:       node,
		root:       root,
	}
}

// Render renders the component and returns the VNode tree.
// The owner is current and the instance is the tracking listener for the
// duration of the render, so hooks find their slots and everything the
// render subscribes to marks this instance dirty.
func (c *ComponentInstance) Render() *vdom.VNode {
	if c.Component == nil {
		return nil
	}

	c.ClearDirty()

	var tree *vdom.VNode
	vango.WithOwner(c.Owner, func() {
		c.Owner.StartRender()
		defer c.Owner.EndRender()

		vango.WithListener(c, func() {
			tree = c.Component.Render()
		})
	})

	c.lastTree = tree
	c.renders.Add(1)
	return tree
}

// MarkDirty marks the component as needing re-render.
func (c *ComponentInstance) MarkDirty() {
	if c.Owner == nil || c.Owner.IsDisposed() {
		return
	}
	if c.dirty.CompareAndSwap(false, true) && c.root != nil {
		c.root.logger.Debug("component marked dirty", "component", c.InstanceID)
	}
}

// IsDirty returns whether the component needs re-rendering.
func (c *ComponentInstance) IsDirty() bool {
	return c.dirty.Load()
}

// ClearDirty clears the dirty flag.
func (c *ComponentInstance) ClearDirty() {
	c.dirty.Store(false)
}

// RenderCount returns how many times the instance rendered.
func (c *ComponentInstance) RenderCount() int64 {
	return c.renders.Load()
}

// LastTree returns the last rendered VNode tree.
func (c *ComponentInstance) LastTree() *vdom.VNode {
	return c.lastTree
}

// Pure reports whether the instance skips parent-driven re-renders.
func (c *ComponentInstance) Pure() bool {
	return vdom.IsPure(c.Component)
}

// Dispose disposes the component instance and all its children.
func (c *ComponentInstance) Dispose() {
	for i := len(c.Children) - 1; i >= 0; i-- {
		c.Children[i].Dispose()
	}
	c.Children = nil

	if c.root != nil {
		c.root.forget(c)
	}

	// Runs effect cleanups, which unsubscribe from external stores.
	if c.Owner != nil {
		c.Owner.Dispose()
	}

	c.Component = nil
	c.lastTree = nil
	c.node = nil
}

// ID implements vango.Listener and returns a globally unique identifier.
func (c *ComponentInstance) ID() uint64 {
	if c.Owner != nil {
		return c.Owner.ID()
	}
	return 0
}
