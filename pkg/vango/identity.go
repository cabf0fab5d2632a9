package vango

import (
	"math"
	"reflect"
	"unsafe"
)

// Same reports whether a and b are the same value in the sense the runtime
// uses to decide that something "did not change".
//
//   - scalars and strings compare by value, except that NaN is the same as NaN
//   - pointers and channels compare by address
//   - funcs compare by closure identity: two evaluations of a capturing
//     closure literal are different, a top-level function is always the same
//   - maps compare by their underlying map pointer
//   - slices compare by backing array pointer, length and capacity
//   - structs and arrays are the same when every field or element is
//   - interfaces are the same when their dynamic types match and their
//     dynamic values are the same
//
// Same never follows pointers and never inspects the contents of maps or
// slices.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	return sameValue(va, vb)
}

// SameDeps reports whether two dependency lists are element-wise Same.
func SameDeps(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !Same(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// sameValue compares two values of identical type.
func sameValue(va, vb reflect.Value) bool {
	switch va.Kind() {
	case reflect.Func:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		ra, rb := readable(va), readable(vb)
		if !ra.CanInterface() || !rb.CanInterface() {
			return false
		}
		return funcIdentity(ra.Interface()) == funcIdentity(rb.Interface())

	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.UnsafePointer() == vb.UnsafePointer()

	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.UnsafePointer() == vb.UnsafePointer() &&
			va.Len() == vb.Len() && va.Cap() == vb.Cap()

	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		ea, eb := va.Elem(), vb.Elem()
		if ea.Type() != eb.Type() {
			return false
		}
		return sameValue(ea, eb)

	case reflect.Struct:
		va, vb = addressable(va), addressable(vb)
		for i := 0; i < va.NumField(); i++ {
			if !sameValue(readable(va.Field(i)), readable(vb.Field(i))) {
				return false
			}
		}
		return true

	case reflect.Array:
		va, vb = addressable(va), addressable(vb)
		for i := 0; i < va.Len(); i++ {
			if !sameValue(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb

	case reflect.Complex64, reflect.Complex128:
		return va.Complex() == vb.Complex()

	case reflect.Bool:
		return va.Bool() == vb.Bool()

	case reflect.String:
		return va.String() == vb.String()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return va.Int() == vb.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return va.Uint() == vb.Uint()
	}
	return false
}

// addressable returns v itself when it is addressable and an addressable
// copy otherwise, so that unexported fields can be read through readable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// readable strips the read-only flag reflect puts on values reached through
// unexported fields. v must be addressable for that to work.
func readable(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// funcIdentity returns the closure pointer held by a func value stored in an
// interface. Func values are pointer-shaped, so the interface data word is
// the closure itself; reflect only exposes the code pointer, which is shared
// by every closure created from the same literal.
func funcIdentity(fn any) unsafe.Pointer {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*eface)(unsafe.Pointer(&fn)).data
}

// Shallow reports whether a and b are Same, or are built from Same parts one
// level down: struct fields (unexported included), the fields of pointed-to
// structs, map entries, and slice or array elements. Parts are compared with
// Same and never recursively.
func Shallow(a, b any) bool {
	if Same(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	if va.Kind() == reflect.Pointer {
		if va.IsNil() || vb.IsNil() || va.Type().Elem().Kind() != reflect.Struct {
			return false
		}
		va, vb = va.Elem(), vb.Elem()
	}

	switch va.Kind() {
	case reflect.Struct:
		va, vb = addressable(va), addressable(vb)
		for i := 0; i < va.NumField(); i++ {
			if !sameValue(readable(va.Field(i)), readable(vb.Field(i))) {
				return false
			}
		}
		return true

	case reflect.Array:
		// Arrays are already compared element-wise by Same.
		return false

	case reflect.Slice:
		if va.IsNil() != vb.IsNil() || va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !sameValue(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Map:
		if va.IsNil() != vb.IsNil() || va.Len() != vb.Len() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() || !sameValue(iter.Value(), other) {
				return false
			}
		}
		return true
	}
	return false
}
