package reducers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	logMsgRegistryBound       = "registry bound"
	logMsgSliceDeclared       = "slice declared"
	logMsgSliceRedeclared     = "slice redeclared, reducers kept"
	logMsgReducerAdded        = "reducer added"
	logMsgTransitionCompleted = "root transition completed"
	logMsgTransitionPanicked  = "root transition panicked"
	logAttrPanic              = "panic"
	logAttrRegistryID         = "registry_id"
	logAttrCreated            = "created"
	logAttrExistingRoot       = "existing_root"
	logAttrSlice              = "slice"
	logAttrSliceCount         = "slice_count"
	logAttrActionType         = "action_type"
	logAttrReducerKind        = "reducer_kind"
	logAttrChanged            = "changed"
	logAttrDurationMS         = "duration_ms"

	metricSlicesDeclared     = "reducers_slices_declared_total"
	metricReducersAdded      = "reducers_reducers_added_total"
	metricSlices             = "reducers_slices"
	metricTransitionDuration = "reducers_transition_duration_seconds"
	metricStateChanges       = "reducers_state_changes_total"

	spanNameDeclareSlice = "reducers.declare_slice"
	spanNameTransition   = "reducers.transition"
	spanAttrRegistryID   = "registry_id"
	spanAttrSlice        = "slice"
	spanAttrSliceCount   = "slice_count"
	spanAttrActionType   = "action_type"
	spanAttrRedeclared   = "redeclared"
	spanAttrChanged      = "changed"
	spanAttrDurationMS   = "duration_ms"

	statusSuccess = "success"
	statusPanic   = "panic"

	reducerKindTyped         = "typed"
	reducerKindUnconditional = "unconditional"
)

// observers holds the optional observability collaborators of a registry.
type observers struct {
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// logInfo logs at info level to every configured logger.
func (o *observers) logInfo(ctx context.Context, msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// logDebug logs at debug level to every configured logger.
func (o *observers) logDebug(ctx context.Context, msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

// logWarn logs at warn level to every configured logger.
func (o *observers) logWarn(ctx context.Context, msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

// logError logs at error level to every configured logger.
func (o *observers) logError(ctx context.Context, msg string, args ...any) {
	if o.logger != nil {
		o.logger.Error(msg, args...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.ErrorContext(ctx, msg, args...)
	}
}

// incrementCounter increments a counter, using the context-aware method if the collector supports it.
func (o *observers) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		o.metricsCollector.IncrementCounter(metric, labels)
	}
}

// recordDuration records a duration, using the context-aware method if the collector supports it.
func (o *observers) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		o.metricsCollector.RecordDuration(metric, duration, labels)
	}
}

// recordValue records a value, using the context-aware method if the collector supports it.
func (o *observers) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
	} else {
		o.metricsCollector.RecordValue(metric, value, labels)
	}
}

// startSpan starts a tracing span if the tracing collector is configured.
func (o *observers) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext) {
	if o.tracingCollector != nil {
		return o.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishSpan finishes a tracing span if the tracing collector is configured.
func (o *observers) finishSpan(span SpanContext, status string, attrs map[string]string) {
	if o.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	o.tracingCollector.FinishSpan(span, status, attrs)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (r *registry) logBound(created, existingRoot bool) {
	obs := r.obs.Load()
	obs.logInfo(
		context.Background(),
		logMsgRegistryBound,
		logAttrRegistryID, r.id,
		logAttrCreated, created,
		logAttrExistingRoot, existingRoot,
	)
}

func (r *registry) startDeclareSliceSpan(name string) (context.Context, SpanContext) {
	return r.obs.Load().startSpan(context.Background(), spanNameDeclareSlice, map[string]string{
		spanAttrRegistryID: r.id,
		spanAttrSlice:      name,
	})
}

func (r *registry) observeSliceDeclared(ctx context.Context, span SpanContext, name string, redeclared bool, sliceCount int) {
	obs := r.obs.Load()

	if redeclared {
		obs.logWarn(ctx, logMsgSliceRedeclared, logAttrRegistryID, r.id, logAttrSlice, name)
	}

	obs.logInfo(ctx, logMsgSliceDeclared, logAttrRegistryID, r.id, logAttrSlice, name, logAttrSliceCount, sliceCount)

	labels := map[string]string{logAttrRegistryID: r.id}
	obs.incrementCounter(ctx, metricSlicesDeclared, labels)
	obs.recordValue(ctx, metricSlices, float64(sliceCount), labels)

	obs.finishSpan(span, statusSuccess, map[string]string{
		spanAttrRedeclared: strconv.FormatBool(redeclared),
		spanAttrSliceCount: strconv.Itoa(sliceCount),
	})
}

func (r *registry) observeReducerAdded(name string, actionType ActionType) {
	obs := r.obs.Load()

	kind := reducerKindUnconditional
	if actionType != "" {
		kind = reducerKindTyped
	}

	ctx := context.Background()
	obs.logDebug(
		ctx,
		logMsgReducerAdded,
		logAttrRegistryID, r.id,
		logAttrSlice, name,
		logAttrReducerKind, kind,
		logAttrActionType, actionType,
	)

	obs.incrementCounter(ctx, metricReducersAdded, map[string]string{
		logAttrRegistryID:  r.id,
		logAttrReducerKind: kind,
	})
}

func (r *registry) startTransitionSpan(action Action) (context.Context, SpanContext) {
	return r.obs.Load().startSpan(context.Background(), spanNameTransition, map[string]string{
		spanAttrRegistryID: r.id,
		spanAttrActionType: action.Type,
	})
}

func (r *registry) observeTransition(
	ctx context.Context,
	span SpanContext,
	action Action,
	changed bool,
	sliceCount int,
	duration time.Duration,
) {
	obs := r.obs.Load()

	obs.logDebug(
		ctx,
		logMsgTransitionCompleted,
		logAttrRegistryID, r.id,
		logAttrActionType, action.Type,
		logAttrChanged, changed,
		logAttrSliceCount, sliceCount,
		logAttrDurationMS, toMilliseconds(duration),
	)

	labels := map[string]string{
		logAttrRegistryID: r.id,
		logAttrChanged:    strconv.FormatBool(changed),
	}
	obs.recordDuration(ctx, metricTransitionDuration, duration, labels)

	if changed {
		obs.incrementCounter(ctx, metricStateChanges, map[string]string{logAttrRegistryID: r.id})
	}

	obs.finishSpan(span, statusSuccess, map[string]string{
		spanAttrChanged:    strconv.FormatBool(changed),
		spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
	})
}

// observeTransitionPanic is deferred by the composed root transition. It finishes the span and logs
// when a reducer panicked, then lets the panic continue to the dispatcher.
func (r *registry) observeTransitionPanic(ctx context.Context, span SpanContext) {
	recovered := recover()
	if recovered == nil {
		return
	}

	obs := r.obs.Load()
	obs.logError(ctx, logMsgTransitionPanicked, logAttrRegistryID, r.id, logAttrPanic, fmt.Sprint(recovered))

	obs.finishSpan(span, statusPanic, map[string]string{logAttrPanic: fmt.Sprint(recovered)})

	panic(recovered)
}
