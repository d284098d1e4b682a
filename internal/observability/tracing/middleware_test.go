package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { otel.SetTracerProvider(sdktrace.NewTracerProvider()) })
	return exporter
}

func attrs(kv []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kv))
	for _, a := range kv {
		m[a.Key] = a.Value
	}
	return m
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		wantName  string
		wantError bool
	}{
		{"feed page", http.MethodGet, "/feed", http.StatusOK, "GET /feed", false},
		{"ad instance normalized", http.MethodPost, "/ads/9f1c2d/shown", http.StatusNoContent, "POST /ads/:instance/shown", false},
		{"client error", http.MethodPost, "/ads/abc/close", http.StatusNotFound, "POST /ads/:instance/close", false},
		{"server error", http.MethodGet, "/feed", http.StatusBadGateway, "GET /feed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := installRecorder(t)

			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, trace.SpanFromContext(r.Context()).SpanContext().IsValid())
				w.WriteHeader(tt.status)
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			span := spans[0]
			assert.Equal(t, tt.wantName, span.Name)
			assert.Equal(t, trace.SpanKindServer, span.SpanKind)

			got := attrs(span.Attributes)
			assert.Equal(t, tt.method, got["http.method"].AsString())
			assert.EqualValues(t, tt.status, got["http.status_code"].AsInt64())
			if tt.wantError {
				assert.Equal(t, codes.Error, span.Status.Code)
			} else {
				assert.NotEqual(t, codes.Error, span.Status.Code)
			}

			assert.Equal(t, span.SpanContext.TraceID().String(), rec.Header().Get(TraceHeader))
		})
	}
}

func TestMiddleware_ContinuesInboundTrace(t *testing.T) {
	exporter := installRecorder(t)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	parent, parentSpan := otel.Tracer("caller").Start(context.Background(), "caller")
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	otel.GetTextMapPropagator().Inject(parent, propagation.HeaderCarrier(req.Header))
	parentSpan.End()

	h := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	server := spans[1]
	assert.Equal(t, parentSpan.SpanContext().TraceID(), server.SpanContext.TraceID())
	assert.Equal(t, parentSpan.SpanContext().SpanID(), server.Parent.SpanID())
}
