// Package oteladapters provides OpenTelemetry implementations of the reducers observability interfaces.
//
// Pass them to reducers.Bind to get slice declarations, reducer registrations and root transitions
// reported to an OpenTelemetry pipeline:
//
//	binding, err := reducers.Bind(
//		store,
//		reducers.WithContextualLogger(oteladapters.NewSlogBridgeLogger("reedux")),
//		reducers.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("reedux"))),
//		reducers.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("reedux"))),
//	)
//
// A nil meter or tracer falls back to the globally registered OpenTelemetry provider.
package oteladapters

// instrumentationName is used when falling back to the global OpenTelemetry providers.
const instrumentationName = "github.com/Silviu-Marian/reedux"
