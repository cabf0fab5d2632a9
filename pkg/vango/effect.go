package vango

import (
	"sync/atomic"
)

// Effect is a side effect declared by a component during render and run by
// the runtime in the commit phase that follows.
//
// Layout effects run before passive effects; within each phase children run
// before their parents. An effect may return a Cleanup that runs before the
// effect runs again and when its owner is disposed.
type Effect struct {
	id uint64

	// fn is the effect body from the most recent render that scheduled it.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// owner is the Owner that owns this effect.
	owner *Owner

	// layout marks effects that run in the layout phase.
	layout bool

	// deps from the last scheduling render.
	deps Deps

	// pending indicates the effect is scheduled for a run.
	pending atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// Deps lists the values an effect depends on. A nil Deps runs the effect
// after every render; an empty Deps (see On) runs it once after mount.
type Deps []any

// On builds a dependency list. On() with no values means "mount only".
func On(values ...any) Deps {
	if values == nil {
		return Deps{}
	}
	return Deps(values)
}

// MarkDirty schedules the effect for the next commit.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	if e.pending.CompareAndSwap(false, true) {
		if e.owner != nil {
			e.owner.scheduleEffect(e)
		}
	}
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect function.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Effects never subscribe anything to what they read.
	oldListener := setCurrentListener(nil)
	oldOwner := setCurrentOwner(e.owner)
	defer func() {
		setCurrentOwner(oldOwner)
		setCurrentListener(oldListener)
	}()

	if e.fn != nil {
		e.cleanup = e.fn()
	}
}

// dispose runs the last cleanup and stops the effect.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// UseLayoutEffect declares an effect that runs in the layout phase of the
// commit following this render. Layout effects of all components run before
// any passive effect and before the runtime decides whether another render
// pass is needed, so state published here is visible to the same update.
//
// This is a hook and MUST be called unconditionally during render.
//
// Example:
//
//	vango.UseLayoutEffect(func() vango.Cleanup {
//	    unsubscribe := cell.Subscribe(onChange)
//	    return unsubscribe
//	}, vango.On(cell))
func UseLayoutEffect(fn func() Cleanup, deps Deps) {
	useEffect(HookLayoutEffect, true, fn, deps)
}

// UseEffect declares a passive effect that runs after all layout effects of
// the commit have run.
//
// This is a hook and MUST be called unconditionally during render.
func UseEffect(fn func() Cleanup, deps Deps) {
	useEffect(HookEffect, false, fn, deps)
}

func useEffect(ht HookType, layout bool, fn func() Cleanup, deps Deps) {
	e, owner, reused := useSlot(ht, func(o *Owner) *Effect {
		e := &Effect{
			id:     nextID(),
			owner:  o,
			layout: layout,
		}
		if o != nil {
			o.registerEffect(e)
		}
		return e
	})

	if owner == nil {
		// No component scope: nothing will commit, run now.
		e.fn = fn
		e.run()
		return
	}

	if reused && deps != nil && e.deps != nil && SameDeps(e.deps, deps) {
		return
	}

	e.fn = fn
	if deps != nil {
		e.deps = append(Deps{}, deps...)
	} else {
		e.deps = nil
	}
	e.MarkDirty()
}

// OnUnmount registers a function to run when the current owner is disposed.
//
// Example:
//
//	vango.OnUnmount(func() {
//	    fmt.Println("Component unmounted")
//	})
func OnUnmount(fn func()) {
	owner := getCurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}
