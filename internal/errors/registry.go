package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	Example  string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Selector Context Errors (E101-E119)
	// ============================================

	"E101": {
		Category: CategoryUsage,
		Message:  "Store read without a provider",
		Detail:   "A selector or snapshot read resolved the store's default value instead of a mounted provider. Mount store.Provider(...) above the consuming component, or use the lenient variant if reading before the provider mounts is intended.",
		Example:  "store.Provider(value,\n    Counter(),\n)",
		DocURL:   "https://vango.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "A hook found a value of a different type in its slot. Hooks must be called unconditionally and in the same order on every render.",
		DocURL:   "https://vango.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryRuntime,
		Message:  "Render loop limit exceeded",
		Detail:   "The runtime kept finding dirty components after the configured number of render passes. A layout effect or selector is probably publishing a new value on every render.",
		DocURL:   "https://vango.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryRuntime,
		Message:  "Panic during render or commit",
		Detail:   "A component, selector, equality function or effect panicked. The root stopped the current update cycle.",
		DocURL:   "https://vango.dev/docs/errors/E104",
	},
	"E105": {
		Category: CategoryRuntime,
		Message:  "Hook called outside component render",
		Detail:   "Hooks need the owner of the component being rendered. Call them from inside a vango.Func render function.",
		DocURL:   "https://vango.dev/docs/errors/E105",
	},

	// ============================================
	// CLI Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid benchmark configuration",
		Detail:   "Subscriber and update counts must be positive.",
		Example:  "vango-selector bench --subscribers 1000 --updates 500 --equality shallow",
		DocURL:   "https://vango.dev/docs/errors/E140",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
