package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	shutdown := Setup(1, rec)

	_, span := GetTracer().Start(context.Background(), "feed.Page")
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "feed.Page", spans[0].Name())
	assert.True(t, spans[0].SpanContext().IsSampled())
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_NeverSample(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	shutdown := Setup(0, rec)
	defer func() { _ = shutdown(context.Background()) }()

	_, span := GetTracer().Start(context.Background(), "feed.Page")
	assert.True(t, span.SpanContext().HasTraceID())
	span.End()

	assert.Empty(t, rec.Ended())
}

var _ sdktrace.SpanProcessor = (*tracetest.SpanRecorder)(nil)
