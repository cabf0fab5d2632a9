// Package errors provides structured, actionable error messages for the
// selector context runtime.
//
// Each error carries a registered code that maps to a short message, a
// longer explanation and a documentation URL. Runtime errors may also record
// the call site that triggered them, so a missing provider is reported where
// the store was read rather than where a zero value is later dereferenced.
//
// Format renders an error for a terminal and FormatJSON for tools reading
// command output. SetColor(false) strips the ANSI styling.
//
// # Error Categories
//
//   - runtime: render loop limits, panics during render, hook slot mismatches
//   - usage: reading a store without a mounted provider
//   - cli: invalid command-line configuration
//
// # Usage
//
//	err := errors.New("E101").
//	    WithCaller(1).
//	    WithSuggestion("Wrap the consumer in CounterStore.Provider(...)")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Store read without a provider
//	//
//	//   app/components/counter.go:15
//	//
//	//   A selector or snapshot read resolved the store's default value ...
//	//
//	//   Hint: Wrap the consumer in CounterStore.Provider(...)
//	//
//	//   Example:
//	//     store.Provider(value,
//	//         Counter(),
//	//     )
//	//
//	//   Learn more: https://vango.dev/docs/errors/E101
package errors
