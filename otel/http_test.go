package otel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer() func() {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		_ = tp.Shutdown(context.Background())
	}
}

func TestInjectTraceHeaders(t *testing.T) {
	defer setupTestTracer()()

	ctx, span := otel.Tracer("portal-test").Start(context.Background(), "whoami")
	defer span.End()

	headers := InjectTraceHeaders(ctx, map[string]string{"x-existing": "1"})
	assert.NotEmpty(t, headers["traceparent"])
	assert.Equal(t, "1", headers["x-existing"])

	nilHeaders := InjectTraceHeaders(ctx, nil)
	assert.Contains(t, nilHeaders, "traceparent")
}

func TestInjectTraceHeadersIntoRequest(t *testing.T) {
	defer setupTestTracer()()

	ctx, span := otel.Tracer("portal-test").Start(context.Background(), "jobs")
	defer span.End()

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	InjectTraceHeadersIntoRequest(ctx, req)
	assert.NotEmpty(t, req.Header.Get("traceparent"))
}

func TestNewTracedRestyClientPropagatesTrace(t *testing.T) {
	defer setupTestTracer()()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Received-Traceparent", r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, span := otel.Tracer("portal-test").Start(context.Background(), "whoami")
	defer span.End()

	resp, err := NewTracedRestyClient(server.URL).R().SetContext(ctx).Get("/auth/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	received := resp.Header().Get("X-Received-Traceparent")
	require.NotEmpty(t, received)

	extracted := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier{"Traceparent": []string{received}})
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}

func TestWithTraceHeadersWithoutSpan(t *testing.T) {
	defer setupTestTracer()()

	req := resty.New().R().SetContext(context.Background())
	require.NoError(t, WithTraceHeaders(nil, req))
	assert.Empty(t, req.Header.Get("traceparent"))
}

func TestStartHTTPSpan(t *testing.T) {
	defer setupTestTracer()()

	spanCtx, finish := StartHTTPSpan(context.Background(), "portal-test", "backend", "whoami", http.MethodGet, "https://api.example.com", "/auth/me")
	assert.True(t, trace.SpanFromContext(spanCtx).SpanContext().IsValid())

	require.NotPanics(t, func() { finish(http.StatusUnauthorized, nil) })
}

func TestStartHTTPSpanWithError(t *testing.T) {
	defer setupTestTracer()()

	spanCtx, finish := StartHTTPSpan(context.Background(), "portal-test", "backend", "jobs", http.MethodGet, "https://api.example.com", "/jobs")
	assert.True(t, trace.SpanFromContext(spanCtx).SpanContext().IsValid())

	require.NotPanics(t, func() { finish(0, assert.AnError) })
}
