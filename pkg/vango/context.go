package vango

import (
	"github.com/vango-dev/selectctx/pkg/vdom"
)

// Context provides dependency injection through the component tree.
// Create a context with CreateContext, provide values with Provide or
// Provider, and consume values with Use.
//
// Example:
//
//	var ThemeContext = vango.CreateContext("light")
//
//	func App() vango.Component {
//	    return vango.Func(func() *vango.VNode {
//	        return ThemeContext.Provider("dark",
//	            Header(),
//	            Main(),
//	        )
//	    })
//	}
//
//	func Button() *vango.VNode {
//	    theme := ThemeContext.Use()
//	    return vdom.Button(vdom.Class("btn-" + theme))
//	}
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// defaultValue is returned when no provider is found
	defaultValue T
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
// The default value is returned by Use() when no Provider is found
// in the component tree.
//
// Example:
//
//	var ThemeContext = vango.CreateContext("light")
//	var UserContext = vango.CreateContext[*User](nil)
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide stores value in the current owner so that it and its descendants
// resolve it. It returns false when no owner is in scope.
func (c *Context[T]) Provide(value T) bool {
	owner := getCurrentOwner()
	if owner == nil {
		return false
	}
	owner.SetValue(c.key, value)
	return true
}

// Provider provides value and wraps children in a fragment.
//
// Example:
//
//	return ThemeContext.Provider("dark",
//	    Header(),
//	    Main(),
//	)
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	c.Provide(value)
	return vdom.Fragment(children...)
}

// Use retrieves the context value from the nearest Provider ancestor.
// If no Provider is found, returns the default value.
//
// This is a hook-like API and MUST be called unconditionally during render.
func (c *Context[T]) Use() T {
	trackHook(HookContext)

	if v, ok := c.Lookup(); ok {
		return v
	}
	return c.defaultValue
}

// Lookup resolves the value provided for c from the current owner.
// ok is false when nothing provides c.
func (c *Context[T]) Lookup() (value T, ok bool) {
	return c.LookupFrom(getCurrentOwner())
}

// LookupFrom resolves the value provided for c as seen from owner.
func (c *Context[T]) LookupFrom(owner *Owner) (value T, ok bool) {
	if owner == nil {
		return value, false
	}
	raw, found := owner.LookupValue(c.key)
	if !found {
		return value, false
	}
	value, ok = raw.(T)
	return value, ok
}

// Resolve is Lookup with the reason spelled out: ErrNoOwner when called
// outside any component scope, ErrDisposed for a disposed scope and
// ErrNotProvided when no ancestor provides c.
func (c *Context[T]) Resolve() (T, error) {
	owner := getCurrentOwner()
	switch {
	case owner == nil:
		return c.defaultValue, ErrNoOwner
	case owner.IsDisposed():
		return c.defaultValue, ErrDisposed
	}
	if v, ok := c.LookupFrom(owner); ok {
		return v, nil
	}
	return c.defaultValue, ErrNotProvided
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}

// SetValue sets a value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// LookupValue retrieves a value from this Owner or its parents.
func (o *Owner) LookupValue(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// GetValue is LookupValue without the found flag.
func (o *Owner) GetValue(key any) any {
	v, _ := o.LookupValue(key)
	return v
}
