package selector

import (
	"log/slog"
)

// options holds the configuration shared by stores and cells.
type options struct {
	name     string
	strict   bool
	logger   *slog.Logger
	observer Observer
}

// Option configures a Store or a Cell.
type Option func(*options)

func defaultOptions() options {
	return options{
		name:     "store",
		logger:   slog.Default(),
		observer: nopObserver{},
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithName names the store in logs, errors and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithStrict makes the strict hooks panic when no provider is mounted even
// when vango.DevMode is off.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLogger sets the logger used for missing-provider warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver reports publishes, selections and missing providers to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
