// Package middleware provides production observers for the selector engine.
//
// This package includes:
//   - Prometheus metrics for publishes, selections and missing providers
//   - OpenTelemetry spans for publishes and a selection counter
//
// Both implement selector.Observer and are attached per store:
//
//	metrics, _ := middleware.Prometheus()
//	tracing, _ := middleware.OpenTelemetry()
//
//	var Cart = selector.New(Cart{},
//	    selector.WithName("cart"),
//	    selector.WithObserver(selector.Observers(metrics, tracing)),
//	)
//
// # Prometheus Metrics
//
// The Prometheus observer collects:
//   - vango_selector_publishes_total: values published by providers
//   - vango_selector_listeners_notified_total: listener calls
//   - vango_selector_publish_duration_seconds: time spent notifying listeners
//   - vango_selector_selections_total: selections by outcome
//     (cache_hit, suppressed, changed)
//   - vango_selector_missing_provider_total: reads without a provider
//
// A high suppressed/changed ratio means equality functions are doing their
// job; a high changed count on a store whose consumers select small slices
// usually means a selector returns a fresh pointer without ShallowEqual.
//
// # OpenTelemetry
//
// The OpenTelemetry observer uses the global tracer and meter providers
// unless WithTracerProvider or WithMeterProvider is given:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithStoreFilter(func(store string) bool {
//	        return store != "clock"
//	    }),
//	)
package middleware
