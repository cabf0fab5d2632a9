package selector

import (
	"fmt"

	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
)

// MissingProviderError reports a strict read of a store that has no
// provider mounted above the reading component.
type MissingProviderError struct {
	// Store is the name of the store.
	Store string

	// Op is the hook or function that performed the read.
	Op string

	err *vangoerrors.VangoError
}

func newMissingProviderError(store, op string, cause error) *MissingProviderError {
	ve := vangoerrors.New("E101").
		WithDetail(fmt.Sprintf("%s read store %q with no %s.Provider mounted above it.", op, store, store)).
		WithSuggestion("Wrap the consuming components in store.Provider(value, ...), or use UseSelectorOrDefault.")
	if cause != nil {
		ve = ve.Wrap(cause)
	}
	return &MissingProviderError{Store: store, Op: op, err: ve}
}

// Error implements error.
func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("selector: %s on store %q: %s", e.Op, e.Store, e.err.Error())
}

// Unwrap exposes the structured error, so errors.Is matches the E101 code.
func (e *MissingProviderError) Unwrap() error {
	return e.err
}

// VangoError returns the structured error for formatting.
func (e *MissingProviderError) VangoError() *vangoerrors.VangoError {
	return e.err
}
