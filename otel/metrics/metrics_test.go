package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordBeforeInitIsNoop(t *testing.T) {
	require.NotPanics(t, func() {
		RecordSessionTransition(context.Background(), "loading", "authenticated")
		RecordLinkClick(context.Background(), "direct", true)
	})
}

func TestInitAndRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(original) })

	require.NoError(t, Init("portal-test"))

	ctx := context.Background()
	RecordHTTPRequest(ctx, "GET", "/admin/jobs", 200, 30*time.Millisecond, 512)
	IncrementInFlightRequests(ctx, "GET", "/admin/jobs")
	DecrementInFlightRequests(ctx, "GET", "/admin/jobs")
	RecordDownstreamCall(ctx, "whoami", 10*time.Millisecond, false)
	RecordSessionTransition(ctx, "loading", "unauthenticated")
	RecordLinkClick(ctx, "queued", true)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	for _, want := range []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"downstream_calls_total",
		"portal_session_transitions_total",
		"portal_link_clicks_total",
		"go_goroutines",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}
