package selector

import (
	"log/slog"

	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
	"github.com/vango-dev/selectctx/pkg/vango"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

// Store is a shared value slot in the component tree. A Provider makes a
// value available to its subtree; descendants read slices of it with
// UseSelector and re-render only when their slice changes.
//
// A Store is usually a package-level variable:
//
//	var Settings = selector.New(Config{Theme: "light"}, selector.WithName("settings"))
type Store[V any] struct {
	defaultValue V
	opts         options

	// ctx carries the nearest provider's Source, or the unbound default.
	ctx *vango.Context[Source[V]]
}

// New creates a store whose consumers read defaultValue when no provider is
// mounted.
func New[V any](defaultValue V, opts ...Option) *Store[V] {
	o := buildOptions(opts)
	return &Store[V]{
		defaultValue: defaultValue,
		opts:         o,
		ctx:          vango.CreateContext(unboundSource(defaultValue)),
	}
}

// Name returns the store name.
func (s *Store[V]) Name() string {
	return s.opts.name
}

// Default returns the value served when no provider is mounted.
func (s *Store[V]) Default() V {
	return s.defaultValue
}

// Provider returns a component that makes value available to children.
//
// Each mounted provider owns one Cell for its whole lifetime. When the
// provider renders with a value that is not vango.Same as the published one,
// it publishes the new value in its layout effect, after its subtree has
// rendered and subscribed, so every subscriber sees the value before the
// update completes.
func (s *Store[V]) Provider(value V, children ...any) *vdom.VNode {
	return &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: vdom.Func(func() *vdom.VNode {
			cell := vango.UseMemo(func() *Cell[V] {
				return NewCell(value,
					WithName(s.opts.name),
					WithObserver(s.opts.observer))
			})

			s.ctx.Provide(cell.Source())

			vango.UseLayoutEffect(func() vango.Cleanup {
				if !vango.Same(cell.Snapshot(), value) {
					cell.Publish(value)
				}
				return nil
			}, nil)

			return vdom.Fragment(children...)
		}),
	}
}

// use resolves the source for a hook. Strict hooks panic with a
// *MissingProviderError when unbound and strict checks are on; otherwise
// the unbound default is served and the miss is reported once per
// component instance.
func (s *Store[V]) use(op string, strict bool) Source[V] {
	if vango.DevMode && !vango.InRender() {
		panic(vangoerrors.New("E105").WithDetail(op + " was called outside a component render."))
	}

	reported := vango.UseRef(false)
	src := s.ctx.Use()
	if src.Bound() {
		return src
	}

	if strict && (s.opts.strict || vango.DevMode) {
		panic(newMissingProviderError(s.opts.name, op, nil))
	}

	if !reported.Current() {
		reported.Set(true)
		s.opts.logger.Warn("selector: no provider mounted",
			slog.String("store", s.opts.name),
			slog.String("op", op))
		s.opts.observer.OnMissingProvider(s.opts.name, op)
	}
	return src
}

// Resolve returns the source of the nearest provider of s as seen from the
// current owner. It is not a hook and may be called from event handlers and
// effects. When nothing provides s it returns the unbound default source and
// a *MissingProviderError.
func Resolve[V any](s *Store[V]) (Source[V], error) {
	src, err := s.ctx.Resolve()
	if err != nil {
		return src, newMissingProviderError(s.opts.name, "Resolve", err)
	}
	if !src.Bound() {
		return src, newMissingProviderError(s.opts.name, "Resolve", nil)
	}
	return src, nil
}
