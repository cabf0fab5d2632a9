package vango

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context to support concurrent
// rendering of independent roots.
type TrackingContext struct {
	// currentOwner is the Owner that will own newly created hooks.
	// Set during component rendering to establish ownership hierarchy.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// When a signal is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// rendering is the Owner whose render is in progress, if any.
	// Hook slots are only used while rendering.
	rendering *Owner

	// batchDepth tracks nested Batch() calls.
	// When > 0, signal updates queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when batch completes.
	// Deduplicated by ID before notification.
	pendingUpdates []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine.
// If no context exists, creates a new one.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the current listener being tracked.
// Returns nil if no tracking is active.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// getCurrentOwner returns the current owner for the goroutine.
// Returns nil if no owner context is set.
func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner sets the current owner for hook creation.
// Returns the previous owner so it can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// renderingOwner returns the owner being rendered on this goroutine when it
// is also the current owner.
func renderingOwner() *Owner {
	ctx := getTrackingContext()
	if ctx.rendering != nil && ctx.rendering == ctx.currentOwner {
		return ctx.rendering
	}
	return nil
}

// setRendering marks o as the owner being rendered and returns the previous one.
func setRendering(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.rendering
	ctx.rendering = o
	return old
}

// incrementBatchDepth increases the batch depth by 1.
func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1.
// Returns true if batch depth reached 0 (batch complete).
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// getBatchDepth returns the current batch nesting depth.
func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

// queuePendingUpdate adds a listener to the pending updates queue.
func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns and clears the pending updates queue.
func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}

// WithOwner runs a function with the specified owner as the current owner.
//
// Example:
//
//	go func() {
//	    WithOwner(parentOwner, func() {
//	        // context lookups here resolve from parentOwner
//	        theme := ThemeContext.Use()
//	    })
//	}()
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs a function with the specified listener for tracking.
// The runtime uses this to subscribe a component to what its render reads.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// CurrentOwner returns the owner in scope on this goroutine, or nil.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// CurrentListener returns the listener in scope on this goroutine, or nil.
func CurrentListener() Listener {
	return getCurrentListener()
}

// ReleaseGoroutine drops the tracking state of the calling goroutine.
// Long-running programs that render from short-lived goroutines call it
// before the goroutine exits.
func ReleaseGoroutine() {
	trackingContexts.Delete(getGoroutineID())
}

// InRender reports whether a component render is in progress on this
// goroutine.
func InRender() bool {
	return renderingOwner() != nil
}
