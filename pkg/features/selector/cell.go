package selector

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/selectctx/pkg/vango"
)

// Listener is notified after a cell publishes a new value.
type Listener func()

// subscription is one registered listener.
type subscription struct {
	fn      Listener
	removed atomic.Bool
}

// Cell holds one value and the listeners interested in it.
//
// Snapshot always returns the most recently published value. Publish
// replaces the value and then calls every listener that was registered when
// the call started, once each, in registration order, before it returns.
// Cell is safe for concurrent use; listeners run outside the lock.
type Cell[V any] struct {
	mu    sync.Mutex
	value V
	subs  []*subscription

	name     string
	observer Observer
	source   Source[V]
}

// NewCell creates a cell holding initial.
func NewCell[V any](initial V, opts ...Option) *Cell[V] {
	o := buildOptions(opts)
	c := &Cell[V]{
		value:    initial,
		name:     o.name,
		observer: o.observer,
	}
	c.source = Source[V]{
		Snapshot: c.Snapshot,
		Subscribe: func(onChange func()) func() {
			return c.Subscribe(onChange)
		},
		bound: true,
	}
	return c
}

// Snapshot returns the current value. It never blocks on listeners.
func (c *Cell[V]) Snapshot() V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Subscribe registers l and returns the function that removes it.
// Registering the same func value again does not add a second entry.
// The returned function may be called any number of times.
func (c *Cell[V]) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	c.mu.Lock()
	sub := c.find(l)
	if sub == nil {
		sub = &subscription{fn: l}
		c.subs = append(c.subs, sub)
	}
	c.mu.Unlock()

	return func() { c.remove(sub) }
}

// find returns the live subscription of l. Callers hold c.mu.
func (c *Cell[V]) find(l Listener) *subscription {
	for _, s := range c.subs {
		if !s.removed.Load() && vango.Same(s.fn, l) {
			return s
		}
	}
	return nil
}

func (c *Cell[V]) remove(sub *subscription) {
	if sub.removed.Swap(true) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Publish replaces the value and notifies listeners. A listener removed by
// an earlier listener of the same pass is skipped; listeners added during
// the pass are first notified by the next Publish.
func (c *Cell[V]) Publish(v V) {
	start := time.Now()

	c.mu.Lock()
	c.value = v
	subs := make([]*subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		if s.removed.Load() {
			continue
		}
		s.fn()
	}

	c.observer.OnPublish(c.name, len(subs), time.Since(start))
}

// Len returns the number of registered listeners.
func (c *Cell[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Source returns the read side of the cell handed to consumers.
// It is the same value for the lifetime of the cell.
func (c *Cell[V]) Source() Source[V] {
	return c.source
}
