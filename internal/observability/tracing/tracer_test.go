package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartAndFail(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	shutdown := Setup(1, rec)
	defer func() { _ = shutdown(context.Background()) }()

	_, ok := Start(context.Background(), "contract.Check", attribute.String("feed.source", "main"))
	Fail(ok, nil)
	ok.End()

	_, failed := Start(context.Background(), "contract.Check")
	Fail(failed, errors.New("backend down"))
	failed.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("feed.source", "main"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "backend down", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}
