// Package helper provides test doubles and arrangement helpers for the reducers packages.
//
// The spies record what the registry reports through its observability interfaces:
//   - LogHandlerSpy: a slog.Handler capturing log records
//   - MetricsCollectorSpy: a reducers.MetricsCollector capturing counters, durations and gauges
//   - ContextualLoggerSpy: a reducers.ContextualLogger capturing messages with their context
//   - TracingCollectorSpy: a reducers.TracingCollector capturing spans and their statuses
package helper
