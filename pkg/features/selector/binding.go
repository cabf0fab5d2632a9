package selector

import (
	"fmt"
	"sync"

	"github.com/vango-dev/selectctx/pkg/vango"
)

// EqualityFn reports whether two derived values should be treated as equal.
// A nil EqualityFn treats every newly derived value as a change.
type EqualityFn[S any] func(a, b S) bool

// selection caches the last raw value seen by a binding and the derived
// value produced from it.
type selection[V, S any] struct {
	mu      sync.Mutex
	seen    bool
	raw     V
	derived S
}

// get answers one selection request for raw.
func (c *selection[V, S]) get(raw V, sel func(V) S, eq EqualityFn[S]) (S, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seen && vango.Same(c.raw, raw) {
		return c.derived, CacheHit
	}

	next := sel(raw)
	if c.seen && eq != nil && eq(c.derived, next) {
		// The cache stays as it was, raw value included.
		return c.derived, Suppressed
	}

	c.raw, c.derived, c.seen = raw, next, true
	return next, Changed
}

// UseSelector returns sel applied to the value of the nearest provider of s
// and re-renders the calling component only when that derived value changes.
//
// A raw value that is vango.Same as the previous one reuses the previous
// derived value without running sel. Otherwise sel runs; if eq reports the
// result equal to the previous derived value, the previous one is kept and
// no re-render happens. Without eq every new derived value is a change.
//
// sel and eq may be recreated on every render; doing so only discards the
// cache. A nil sel selects the whole value and requires V to be assignable
// to S.
//
// UseSelector panics with a *MissingProviderError when no provider is
// mounted and strict checks are on (vango.DevMode or WithStrict). Otherwise
// it behaves like UseSelectorOrDefault.
//
// This is a hook and MUST be called unconditionally during render.
//
// Example:
//
//	count := selector.UseSelector(Counter, func(v CounterState) int { return v.Count }, nil)
func UseSelector[V, S any](s *Store[V], sel func(V) S, eq EqualityFn[S]) S {
	return bind(s, s.use("UseSelector", true), sel, eq)
}

// UseSelectorOrDefault is UseSelector without the strict check: with no
// provider mounted it selects from the store default and never re-renders
// because of the store.
func UseSelectorOrDefault[V, S any](s *Store[V], sel func(V) S, eq EqualityFn[S]) S {
	return bind(s, s.use("UseSelectorOrDefault", false), sel, eq)
}

// UseValue returns the whole value of the nearest provider of s.
func UseValue[V any](s *Store[V]) V {
	return bind[V, V](s, s.use("UseValue", true), nil, nil)
}

// WithStore fixes the store of UseSelector, for packages that expose a
// single typed hook:
//
//	var useCount = selector.WithStore[CounterState, int](Counter)
//	count := useCount(func(v CounterState) int { return v.Count }, nil)
func WithStore[V, S any](s *Store[V]) func(sel func(V) S, eq EqualityFn[S]) S {
	return func(sel func(V) S, eq EqualityFn[S]) S {
		return bind(s, s.use("WithStore", true), sel, eq)
	}
}

// bind subscribes the rendering component to src through a cached
// selection keyed on the identity of sel, eq and the source.
func bind[V, S any](s *Store[V], src Source[V], sel func(V) S, eq EqualityFn[S]) S {
	if sel == nil {
		sel = identitySelector[V, S]
	}

	name := s.opts.name
	observer := s.opts.observer
	getSnapshot := vango.UseMemo(func() func() S {
		cache := &selection[V, S]{}
		return func() S {
			derived, outcome := cache.get(src.Snapshot(), sel, eq)
			observer.OnSelect(name, outcome)
			return derived
		}
	}, sel, eq, src.Snapshot)

	return vango.UseExternalSnapshot(src.Subscribe, getSnapshot)
}

func identitySelector[V, S any](v V) S {
	s, ok := any(v).(S)
	if !ok && any(v) != nil {
		var zero S
		panic(fmt.Sprintf("selector: nil selector needs %T to be assignable to %T", v, zero))
	}
	return s
}
