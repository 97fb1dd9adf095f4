package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Silviu-Marian/reedux/reducers"
)

// TracingCollector implements reducers.TracingCollector with OpenTelemetry spans.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector starting its spans with tracer.
// A nil tracer uses the global TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span carrying attrs and returns the context holding it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, reducers.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, sets the status and ends the span. Span contexts not created by
// this collector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx reducers.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(attributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ reducers.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements reducers.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps "ok"/"success" to codes.Ok and "error"/"failed"/"panic" to codes.Error.
// Any other status is recorded as a "status" attribute.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case "ok", "success":
		s.span.SetStatus(codes.Ok, "")
	case "error", "failed":
		s.span.SetStatus(codes.Error, "Operation failed")
	case "panic":
		s.span.SetStatus(codes.Error, "Reducer panicked")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ reducers.SpanContext = (*OTelSpanContext)(nil)
