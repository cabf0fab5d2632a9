package runtime

import "log/slog"

// Config configures a Root.
type Config struct {
	// Logger receives render diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxPasses bounds the render passes of a single flush. A tree that is
	// still dirty after MaxPasses passes is reported as a render loop.
	// Default: 100.
	MaxPasses int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Logger:    slog.Default(),
		MaxPasses: 100,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = d.MaxPasses
	}
	return c
}
