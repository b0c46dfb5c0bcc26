package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/schoollibrary/circulation/eventstore"
)

// TracingCollector creates one OpenTelemetry span per StartSpan/FinishSpan pair.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector wraps a tracer obtained from a TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span carrying attrs as string attributes.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, maps status to a span status and ends the span.
// Span contexts from other collectors are ignored.
func (t *TracingCollector) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ eventstore.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext wraps an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps the command/query outcome vocabulary onto span status codes.
// Business rejections (a banned borrower, an out-of-stock book) are not span errors.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case "success", "idempotent", "rejected":
		s.span.SetStatus(codes.Ok, "")
	case "error":
		s.span.SetStatus(codes.Error, "operation failed")
	case "canceled":
		s.span.SetStatus(codes.Error, "operation canceled")
	case "timeout":
		s.span.SetStatus(codes.Error, "operation timed out")
	case "concurrency_conflict":
		s.span.SetStatus(codes.Error, "concurrency conflict")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ eventstore.SpanContext = (*OTelSpanContext)(nil)

func toAttributes(attrs map[string]string) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		kvs = append(kvs, attribute.String(key, value))
	}

	return kvs
}
