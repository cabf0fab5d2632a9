package selector

import "github.com/vango-dev/selectctx/pkg/vango"

// Identity reports whether a and b are vango.Same. As the equality of a
// binding it keeps the previous derived value whenever the selector returns
// the very same value again.
func Identity[S any](a, b S) bool {
	return vango.Same(a, b)
}

// ShallowEqual compares a and b one level deep with vango.Shallow: struct
// fields, the fields behind a struct pointer, map entries and slice
// elements must each be vango.Same.
//
//	pos := selector.UseSelector(Shapes, func(v Shape) Point {
//		return Point{X: v.X, Y: v.Y}
//	}, selector.ShallowEqual[Point])
func ShallowEqual[S any](a, b S) bool {
	return vango.Shallow(a, b)
}
