package vango

import "errors"

// ErrNoOwner is returned by lookups that need a component scope when none
// is current on the calling goroutine.
var ErrNoOwner = errors.New("vango: no owner in scope")

// ErrDisposed is returned when an operation targets a disposed owner.
var ErrDisposed = errors.New("vango: owner disposed")

// ErrNotProvided is returned by Context.Resolve when no ancestor provides
// the context.
var ErrNotProvided = errors.New("vango: context not provided")
