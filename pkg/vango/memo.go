package vango

// memoSlot is the per-call-site state of UseMemo.
type memoSlot[T any] struct {
	value T
	deps  []any
	ready bool
}

// UseMemo returns the value computed by compute, recomputing it only when one
// of deps is not Same as in the previous render. With no deps the value is
// computed once per component instance.
//
// This is a hook and MUST be called unconditionally during render. Outside of
// a render compute always runs.
//
// Example:
//
//	sorted := vango.UseMemo(func() []Item {
//	    return sortItems(items)
//	}, items)
func UseMemo[T any](compute func() T, deps ...any) T {
	m, _, _ := useSlot(HookMemo, func(*Owner) *memoSlot[T] {
		return &memoSlot[T]{}
	})

	if m.ready && SameDeps(m.deps, deps) {
		return m.value
	}

	m.value = compute()
	m.deps = append(m.deps[:0:0], deps...)
	m.ready = true
	return m.value
}
