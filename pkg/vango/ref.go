package vango

import "sync"

// Ref holds a mutable value that survives re-renders. Writing to a Ref never
// causes a re-render.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// UseRef returns the Ref stored in the current hook slot, creating it with
// initial on the first render.
//
// This is a hook and MUST be called unconditionally during render.
//
// Example:
//
//	renders := vango.UseRef(0)
//	renders.Set(renders.Current() + 1)
func UseRef[T any](initial T) *Ref[T] {
	r, _, _ := useSlot(HookRef, func(*Owner) *Ref[T] {
		return &Ref[T]{value: initial}
	})
	return r
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}
