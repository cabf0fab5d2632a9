package middleware

import (
	"context"
	"time"

	"github.com/vango-dev/selectctx/pkg/features/selector"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Default instrumentation name for the selector engine.
const defaultTracerName = "vango/selector"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the instrumentation name of the tracer and meter
	// (default: "vango/selector").
	TracerName string

	// TracerProvider provides the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	TracerProvider trace.TracerProvider

	// MeterProvider provides the meter for selection counts.
	// Default: the global provider from otel.GetMeterProvider.
	MeterProvider metric.MeterProvider

	// Filter determines which stores to trace.
	// If nil, all stores are traced.
	Filter func(store string) bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the instrumentation name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *OTelConfig) {
		c.MeterProvider = mp
	}
}

// WithStoreFilter sets a filter on store names.
func WithStoreFilter(filter func(store string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// Tracing is a selector.Observer that reports to OpenTelemetry.
type Tracing struct {
	config     OTelConfig
	tracer     trace.Tracer
	selections metric.Int64Counter
}

var _ selector.Observer = (*Tracing)(nil)

// OpenTelemetry creates an observer that traces publishes and counts
// selections.
//
// The observer:
//   - records a "selector.publish" span per publish, covering the time spent
//     notifying listeners, with the store name and listener count
//   - records a "selector.missing_provider" span with error status when a
//     component reads a store that has no provider
//   - counts selection requests in the "selector.selections" counter, by
//     store and outcome
//
// Example:
//
//	tracing, err := middleware.OpenTelemetry(middleware.WithTracerName("my-app"))
//	if err != nil {
//	    return err
//	}
//	var Cart = selector.New(Cart{}, selector.WithObserver(tracing))
//
// Configure the global providers in main() before creating the observer:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) (*Tracing, error) {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	if config.MeterProvider == nil {
		config.MeterProvider = otel.GetMeterProvider()
	}

	selections, err := config.MeterProvider.Meter(config.TracerName).Int64Counter(
		"selector.selections",
		metric.WithDescription("Selection requests by outcome"),
		metric.WithUnit("{selection}"),
	)
	if err != nil {
		return nil, err
	}

	return &Tracing{
		config:     config,
		tracer:     config.TracerProvider.Tracer(config.TracerName),
		selections: selections,
	}, nil
}

func (t *Tracing) traced(store string) bool {
	return t.config.Filter == nil || t.config.Filter(store)
}

// OnPublish implements selector.Observer.
func (t *Tracing) OnPublish(store string, listeners int, elapsed time.Duration) {
	if !t.traced(store) {
		return
	}

	end := time.Now()
	attrs := append([]attribute.KeyValue{
		attribute.String("selector.store", store),
		attribute.Int("selector.listeners", listeners),
	}, t.config.Attributes...)

	_, span := t.tracer.Start(context.Background(), "selector.publish",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-elapsed)),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(end))
}

// OnSelect implements selector.Observer.
func (t *Tracing) OnSelect(store string, outcome selector.Outcome) {
	if !t.traced(store) {
		return
	}
	t.selections.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("selector.store", store),
		attribute.String("selector.outcome", outcome.String()),
	))
}

// OnMissingProvider implements selector.Observer.
func (t *Tracing) OnMissingProvider(store, op string) {
	if !t.traced(store) {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.String("selector.store", store),
		attribute.String("selector.op", op),
	}, t.config.Attributes...)

	_, span := t.tracer.Start(context.Background(), "selector.missing_provider",
		trace.WithAttributes(attrs...),
	)
	span.SetStatus(codes.Error, "no provider mounted")
	span.End()
}
