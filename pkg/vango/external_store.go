package vango

// SubscribeFunc registers onChange with an external store and returns the
// function that removes it. The runtime compares SubscribeFunc values with
// Same: a store should hand out the same func value for as long as the
// subscription target does not change.
type SubscribeFunc func(onChange func()) (unsubscribe func())

// externalStore is the per-call-site state of UseExternalSnapshot.
type externalStore[S any] struct {
	getSnapshot func() S
	rendered    S
	listener    Listener
}

// check re-reads the snapshot and marks the component dirty if it moved
// away from the value the component last rendered with.
func (st *externalStore[S]) check() {
	if st.getSnapshot == nil || st.listener == nil {
		return
	}
	if !Same(any(st.rendered), any(st.getSnapshot())) {
		st.listener.MarkDirty()
	}
}

// UseExternalSnapshot reads a value owned outside the component tree and
// keeps the component subscribed to it.
//
// getSnapshot is called during every render; its result is returned. The
// component subscribes in a layout effect keyed on the identity of subscribe,
// so a new subscribe func resubscribes and the old subscription is removed.
// When the store notifies, the snapshot is read again and the component is
// marked dirty only if the result is not Same as the rendered one. The
// snapshot is also re-checked after every commit, which catches a change
// published between render and subscription.
//
// This is a hook and MUST be called unconditionally during render. Outside
// of a render it returns getSnapshot() and subscribes nothing.
func UseExternalSnapshot[S any](subscribe SubscribeFunc, getSnapshot func() S) S {
	value := getSnapshot()

	if renderingOwner() == nil {
		return value
	}

	st, _, _ := useSlot(HookExternalStore, func(*Owner) *externalStore[S] {
		return &externalStore[S]{}
	})
	st.getSnapshot = getSnapshot
	st.rendered = value
	st.listener = getCurrentListener()

	UseLayoutEffect(func() Cleanup {
		unsubscribe := subscribe(st.check)
		st.check()
		return Cleanup(unsubscribe)
	}, On(subscribe))

	UseLayoutEffect(func() Cleanup {
		st.check()
		return nil
	}, nil)

	return value
}
