package errors

import (
	"fmt"
	"runtime"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryUsage   Category = "usage"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File     string
	Line     int
	Function string
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// VangoError is a structured error with source location, suggestions, and documentation.
type VangoError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (runtime, usage, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the call site that triggered the error, if captured.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VangoError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VangoError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same error code.
// This lets callers match on a registered template: errors.Is(err, errors.New("E101")).
func (e *VangoError) Is(target error) bool {
	t, ok := target.(*VangoError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithCaller records the call site skip frames above the caller of WithCaller.
func (e *VangoError) WithCaller(skip int) *VangoError {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return e
	}
	loc := &Location{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	e.Location = loc
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VangoError) WithSuggestion(s string) *VangoError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VangoError) WithDetail(d string) *VangoError {
	e.Detail = d
	return e
}

// WithMessage replaces the short message, keeping code and category.
func (e *VangoError) WithMessage(format string, args ...any) *VangoError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *VangoError) Wrap(err error) *VangoError {
	e.Wrapped = err
	return e
}

// New creates a VangoError from a registered error code.
func New(code string) *VangoError {
	template, ok := registry[code]
	if !ok {
		return &VangoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VangoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		Example:  template.Example,
		DocURL:   template.DocURL,
	}
}
