package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/schoollibrary/circulation/eventstore/oteladapters"
)

func Test_TracingCollector_RecordsSpanWithAttributes(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	_, span := collector.StartSpan(context.Background(), "commandhandler.handle", map[string]string{"command_type": "ApproveBorrowRequest"})
	collector.FinishSpan(span, "success", map[string]string{"duration_ms": "1.5"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "commandhandler.handle", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("command_type", "ApproveBorrowRequest"))
	assert.Contains(t, spans[0].Attributes, attribute.String("duration_ms", "1.5"))
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status   string
		expected codes.Code
	}{
		{"success", codes.Ok},
		{"idempotent", codes.Ok},
		{"rejected", codes.Ok},
		{"error", codes.Error},
		{"canceled", codes.Error},
		{"timeout", codes.Error},
		{"concurrency_conflict", codes.Error},
		{"something-else", codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			exporter := tracetest.NewInMemoryExporter()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
			collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

			_, span := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(span, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expected, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_ChildSpanSharesTrace(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	ctx, parent := collector.StartSpan(context.Background(), "parent", nil)
	_, child := collector.StartSpan(ctx, "child", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[0].SpanContext.TraceID(), spans[1].SpanContext.TraceID())
}
