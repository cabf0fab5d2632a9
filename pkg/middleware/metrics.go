package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/selectctx/pkg/features/selector"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vango").
	Namespace string

	// Subsystem is the metrics subsystem (default: "selector").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for publish duration.
	// Default: buckets from 1µs to ~16ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the publish duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vango",
		Subsystem: "selector",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a selector.Observer that records Prometheus metrics.
type Metrics struct {
	publishes       *prometheus.CounterVec
	notified        *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
	selections      *prometheus.CounterVec
	missing         *prometheus.CounterVec
}

var _ selector.Observer = (*Metrics)(nil)

// Prometheus creates an observer that records selector metrics.
//
// Metrics collected:
//   - vango_selector_publishes_total: publishes by store
//   - vango_selector_listeners_notified_total: listener calls by store
//   - vango_selector_publish_duration_seconds: time spent notifying listeners
//   - vango_selector_selections_total: selection requests by store and outcome
//   - vango_selector_missing_provider_total: reads without a provider by store and op
//
// Calling Prometheus again with the same registry returns an observer that
// shares the already registered collectors.
//
// Example:
//
//	metrics, err := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	if err != nil {
//	    return err
//	}
//	var Settings = selector.New(defaults, selector.WithObserver(metrics))
//
//	// Expose metrics endpoint
//	r.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) (*Metrics, error) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	m := &Metrics{}
	var err error
	if m.publishes, err = register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "publishes_total",
		Help:        "Total number of values published by providers",
		ConstLabels: config.ConstLabels,
	}, []string{"store"})); err != nil {
		return nil, err
	}

	if m.notified, err = register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "listeners_notified_total",
		Help:        "Total number of listener notifications",
		ConstLabels: config.ConstLabels,
	}, []string{"store"})); err != nil {
		return nil, err
	}

	if m.publishDuration, err = register(config.Registry, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "publish_duration_seconds",
		Help:        "Time spent notifying listeners of a publish",
		ConstLabels: config.ConstLabels,
		Buckets:     config.Buckets,
	}, []string{"store"})); err != nil {
		return nil, err
	}

	if m.selections, err = register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "selections_total",
		Help:        "Total number of selection requests by outcome",
		ConstLabels: config.ConstLabels,
	}, []string{"store", "outcome"})); err != nil {
		return nil, err
	}

	if m.missing, err = register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "missing_provider_total",
		Help:        "Total number of store reads without a mounted provider",
		ConstLabels: config.ConstLabels,
	}, []string{"store", "op"})); err != nil {
		return nil, err
	}

	return m, nil
}

// register registers c, or returns the equivalent collector registered
// before.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// OnPublish implements selector.Observer.
func (m *Metrics) OnPublish(store string, listeners int, elapsed time.Duration) {
	m.publishes.WithLabelValues(store).Inc()
	m.notified.WithLabelValues(store).Add(float64(listeners))
	m.publishDuration.WithLabelValues(store).Observe(elapsed.Seconds())
}

// OnSelect implements selector.Observer.
func (m *Metrics) OnSelect(store string, outcome selector.Outcome) {
	m.selections.WithLabelValues(store, outcome.String()).Inc()
}

// OnMissingProvider implements selector.Observer.
func (m *Metrics) OnMissingProvider(store, op string) {
	m.missing.WithLabelValues(store, op).Inc()
}
