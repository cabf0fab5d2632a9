package vango

// DevMode enables development-time checks and panics for invalid operations.
// When true:
//   - hooks that require a surrounding provider panic when none is mounted
//   - hook slot mismatches panic with the offending type
//
// When false (production), the same situations degrade to documented
// fallbacks and are logged instead.
//
// Set this at application startup:
//
//	func main() {
//	    vango.DevMode = os.Getenv("VANGO_DEV") == "1"
//	    // ...
//	}
var DevMode = false

// DebugMode enables hook order validation on every render.
// This should be set at startup and not changed during runtime.
var DebugMode bool
