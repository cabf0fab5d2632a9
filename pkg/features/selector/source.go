package selector

import "github.com/vango-dev/selectctx/pkg/vango"

// Source is what a provider hands to its descendants: a way to read the
// current value and a way to be told when it changes. The funcs of a Source
// keep their identity for as long as the Source is in use, so hooks can key
// subscriptions and caches on them.
type Source[V any] struct {
	Snapshot  func() V
	Subscribe vango.SubscribeFunc

	bound bool
}

// Bound reports whether the source belongs to a mounted provider. An
// unbound source serves the store default and never notifies.
func (s Source[V]) Bound() bool {
	return s.bound
}

// unboundSource serves value and ignores subscriptions.
func unboundSource[V any](value V) Source[V] {
	return Source[V]{
		Snapshot: func() V { return value },
		Subscribe: func(func()) func() {
			return func() {}
		},
	}
}
