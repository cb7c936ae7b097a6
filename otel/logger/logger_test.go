package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := zap.L()
	core, logs := observer.New(zap.DebugLevel)
	zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(func() { zap.ReplaceGlobals(original) })
	return logs
}

func TestInfoCtxWithoutSpan(t *testing.T) {
	logs := observe(t)

	InfoCtx(context.Background(), "session hydrated", zap.String("role", "talent"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "talent", fields["role"])
	assert.NotContains(t, fields, "trace_id")
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestErrorCtxWithSpan(t *testing.T) {
	logs := observe(t)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("portal-test").Start(context.Background(), "whoami")
	defer span.End()

	ErrorCtx(ctx, "whoami failed", errors.New("status 401"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, "status 401", fields["error"])
	assert.Equal(t, GetTraceID(ctx), fields["trace_id"])
}

func TestFormattedCtx(t *testing.T) {
	logs := observe(t)

	InfofCtx(context.Background(), "redirecting %s to %s", "/admin", "/login")
	ErrorfCtx(context.Background(), "backend %d", 502)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "redirecting /admin to /login", entries[0].Message)
	assert.Equal(t, "backend 502", entries[1].Message)
}
