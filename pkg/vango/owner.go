package vango

import (
	"fmt"
	"sync"
	"sync/atomic"

	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookSignal HookType = iota + 1
	HookMemo
	HookEffect
	HookLayoutEffect
	HookRef
	HookContext
	HookExternalStore
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookSignal:
		return "Signal"
	case HookMemo:
		return "Memo"
	case HookEffect:
		return "Effect"
	case HookLayoutEffect:
		return "LayoutEffect"
	case HookRef:
		return "Ref"
	case HookContext:
		return "Context"
	case HookExternalStore:
		return "ExternalStore"
	default:
		return "Unknown"
	}
}

// Owner represents a component scope that owns hooks, effects and context
// values. When an Owner is disposed, all effects and child owners it contains
// are also disposed.
//
// Owners form a hierarchy: each mounted component creates an Owner that is a
// child of its parent component's Owner. Context lookups walk this chain.
type Owner struct {
	id uint64

	// parent is the parent Owner in the hierarchy.
	// nil for the root Owner.
	parent *Owner

	// children are child Owners (sub-components).
	children   []*Owner
	childrenMu sync.Mutex

	// effects owned by this scope, in creation order.
	effects   []*Effect
	effectsMu sync.Mutex

	// cleanups are manual cleanup functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// pending effects scheduled by the last render, per phase.
	pendingLayout  []*Effect
	pendingPassive []*Effect
	pendingMu      sync.Mutex

	// values stores context values for this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	// disposed indicates whether this Owner has been disposed.
	disposed atomic.Bool

	// Dev-mode hook order tracking (only used when DebugMode is true)
	hookOrder   []HookType // Expected order from first render
	hookIndex   int        // Current index during render
	renderCount int        // completed renders

	// Hook slot storage for stable identity across renders.
	hookSlots   []any
	hookSlotIdx int

	// prevRendering restores the outer rendering owner after EndRender.
	prevRendering *Owner
}

// NewOwner creates a new Owner with the given parent.
// The new Owner is automatically registered as a child of the parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// RenderCount returns how many renders of this owner have completed.
func (o *Owner) RenderCount() int {
	return o.renderCount
}

// addChild registers a child Owner.
func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

// removeChild removes a child Owner from this Owner's children.
func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// registerEffect adds an effect to this Owner.
// The effect will be disposed when this Owner is disposed.
func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers a cleanup function to run when this Owner is disposed.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		// Already disposed, run cleanup immediately
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// scheduleEffect queues an effect for the commit phase.
func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.pendingMu.Lock()
	defer o.pendingMu.Unlock()
	if e.layout {
		o.pendingLayout = append(o.pendingLayout, e)
	} else {
		o.pendingPassive = append(o.pendingPassive, e)
	}
}

// CommitLayout runs this owner's pending layout effects, in the order they
// were declared. Children are not visited; the runtime decides the order
// across owners.
func (o *Owner) CommitLayout() {
	o.runPending(true)
}

// CommitEffects runs this owner's pending passive effects.
func (o *Owner) CommitEffects() {
	o.runPending(false)
}

func (o *Owner) runPending(layout bool) {
	if o.disposed.Load() {
		return
	}

	o.pendingMu.Lock()
	var effects []*Effect
	if layout {
		effects, o.pendingLayout = o.pendingLayout, nil
	} else {
		effects, o.pendingPassive = o.pendingPassive, nil
	}
	o.pendingMu.Unlock()

	for _, e := range effects {
		e.run()
	}
}

// RunPendingEffects runs pending layout effects and then pending passive
// effects of this owner and all its descendants, children first.
// Tests that drive owners by hand use it in place of a runtime commit.
func (o *Owner) RunPendingEffects() {
	o.walkPostOrder(func(x *Owner) { x.CommitLayout() })
	o.walkPostOrder(func(x *Owner) { x.CommitEffects() })
}

func (o *Owner) walkPostOrder(fn func(*Owner)) {
	if o.disposed.Load() {
		return
	}
	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		child.walkPostOrder(fn)
	}
	fn(o)
}

// HasPendingEffects returns true if this owner or any child has pending effects.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}

	o.pendingMu.Lock()
	hasPending := len(o.pendingLayout)+len(o.pendingPassive) > 0
	o.pendingMu.Unlock()
	if hasPending {
		return true
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		if child.HasPendingEffects() {
			return true
		}
	}
	return false
}

// Dispose disposes this Owner and all its children, effects, and cleanups.
// Children are disposed in reverse order (last created first).
// After disposal, the Owner cannot be used.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	// Layout effects clean up before passive ones.
	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		if e.layout {
			e.dispose()
		}
	}
	for _, e := range effects {
		if !e.layout {
			e.dispose()
		}
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingMu.Lock()
	o.pendingLayout = nil
	o.pendingPassive = nil
	o.pendingMu.Unlock()
}

// =============================================================================
// Render Phase
// =============================================================================

// StartRender is called at the beginning of a component render.
// It marks the owner as rendering on this goroutine and resets the hook slot
// index so hooks find their state from the previous render.
func (o *Owner) StartRender() {
	o.prevRendering = setRendering(o)
	o.hookSlotIdx = 0
	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode, it validates that all expected hooks were called.
func (o *Owner) EndRender() {
	setRendering(o.prevRendering)
	o.prevRendering = nil

	first := o.renderCount == 0
	o.renderCount++

	if !DebugMode || first {
		return
	}
	if o.hookIndex < len(o.hookOrder) {
		panic(fmt.Sprintf("[VANGO E102] Hook order changed: expected %d hooks, got %d",
			len(o.hookOrder), o.hookIndex))
	}
}

// TrackHook records a hook call during render for order validation.
// In debug mode, it validates that hooks are called in the same order
// on every render. Violations cause a panic with a descriptive error.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(fmt.Sprintf("[VANGO E102] Hook order changed: extra %s hook at index %d",
				ht, o.hookIndex))
		}
		if expected := o.hookOrder[o.hookIndex]; expected != ht {
			panic(fmt.Sprintf("[VANGO E102] Hook order changed at index %d: expected %s, got %s",
				o.hookIndex, expected, ht))
		}
	}
	o.hookIndex++
}

// trackHook records a hook call on the owner currently being rendered.
func trackHook(ht HookType) {
	if o := renderingOwner(); o != nil {
		o.TrackHook(ht)
	}
}

// =============================================================================
// Hook Slot Storage for Stable Identity
// =============================================================================

// UseHookSlot returns the stored value for the current hook slot, or nil on
// the first render. The caller creates the value and stores it with
// SetHookSlot.
//
// Usage pattern:
//
//	func UseThing() *Thing {
//	    if slot := owner.UseHookSlot(); slot != nil {
//	        return slot.(*Thing)
//	    }
//	    t := &Thing{}
//	    owner.SetHookSlot(t)
//	    return t
//	}
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the current hook slot.
// Must be called after UseHookSlot returns nil (first render).
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}

// useSlot resolves the typed hook state for the current slot of the rendering
// owner, creating it with create on first use. Outside of render it returns
// a fresh value that is not retained.
func useSlot[S any](ht HookType, create func(o *Owner) S) (S, *Owner, bool) {
	o := renderingOwner()
	if o == nil {
		owner := getCurrentOwner()
		return create(owner), owner, false
	}

	o.TrackHook(ht)
	if slot := o.UseHookSlot(); slot != nil {
		typed, ok := slot.(S)
		if !ok {
			panic(vangoerrors.New("E102").
				WithMessage("hook slot type mismatch for %s: found %T", ht, slot))
		}
		return typed, o, true
	}

	s := create(o)
	o.SetHookSlot(s)
	return s, o, false
}
