package reducers

// Option defines a functional option for configuring the registry a Binding is attached to.
//
// Options apply to the registry of the bound store, so they outlive the Binding:
// a later Bind on the same store without the option keeps the previously configured value.
type Option func(*bindConfig) error

type bindConfig struct {
	rootTransition   RootTransition
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// WithRootTransition supplies the store's existing root transition.
// It runs beneath all declared slices, and replaces the previously stored one for all future compositions.
func WithRootTransition(root RootTransition) Option {
	return func(cfg *bindConfig) error {
		if root == nil {
			return ErrNilRootTransition
		}

		cfg.rootTransition = root

		return nil
	}
}

// WithLogger sets the logger for the registry.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: reducer registrations and completed transitions
// Info level: bindings and slice declarations
// Warn level: slice redeclarations.
func WithLogger(logger Logger) Option {
	return func(cfg *bindConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the registry.
// Messages carry the span context of the operation when tracing is enabled.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(cfg *bindConfig) error {
		cfg.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the registry.
// It receives slice declaration and reducer registration counters,
// root transition durations, and state change counters.
func WithMetrics(collector MetricsCollector) Option {
	return func(cfg *bindConfig) error {
		cfg.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the registry.
// Slice declarations and root transitions are recorded as spans.
func WithTracing(collector TracingCollector) Option {
	return func(cfg *bindConfig) error {
		cfg.tracingCollector = collector
		return nil
	}
}
