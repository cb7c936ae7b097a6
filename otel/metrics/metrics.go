package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter metric.Meter

	// Inbound portal requests
	httpRequestsTotal    metric.Int64Counter
	httpRequestDuration  metric.Float64Histogram
	httpRequestsInFlight metric.Int64UpDownCounter
	httpResponseSize     metric.Int64Histogram

	// Calls to the marketplace backend
	downstreamCallsTotal   metric.Int64Counter
	downstreamCallDuration metric.Float64Histogram

	// Session store and tracking
	sessionTransitionsTotal metric.Int64Counter
	linkClicksTotal         metric.Int64Counter

	goGoroutines metric.Int64ObservableGauge
)

// Init creates the portal instruments on the global meter provider. Record
// functions are no-ops until Init succeeds.
func Init(serviceName string) error {
	meter = otel.Meter(serviceName)

	var err error

	httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	httpRequestsInFlight, err = meter.Int64UpDownCounter(
		"http_requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_in_flight gauge: %w", err)
	}

	httpResponseSize, err = meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("HTTP response size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_response_size_bytes histogram: %w", err)
	}

	downstreamCallsTotal, err = meter.Int64Counter(
		"downstream_calls_total",
		metric.WithDescription("Total number of marketplace backend calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create downstream_calls_total counter: %w", err)
	}

	downstreamCallDuration, err = meter.Float64Histogram(
		"downstream_call_duration_seconds",
		metric.WithDescription("Marketplace backend call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create downstream_call_duration_seconds histogram: %w", err)
	}

	sessionTransitionsTotal, err = meter.Int64Counter(
		"portal_session_transitions_total",
		metric.WithDescription("Session store state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create portal_session_transitions_total counter: %w", err)
	}

	linkClicksTotal, err = meter.Int64Counter(
		"portal_link_clicks_total",
		metric.WithDescription("Tracked scheduling link clicks"),
		metric.WithUnit("{click}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create portal_link_clicks_total counter: %w", err)
	}

	goGoroutines, err = meter.Int64ObservableGauge(
		"go_goroutines",
		metric.WithDescription("Number of goroutines currently running"),
		metric.WithUnit("{goroutine}"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create go_goroutines gauge: %w", err)
	}

	return nil
}

// RecordHTTPRequest records a finished inbound request.
func RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration, responseSize int64) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)

	if httpRequestsTotal != nil {
		httpRequestsTotal.Add(ctx, 1, attrs)
	}
	if httpRequestDuration != nil {
		httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if httpResponseSize != nil && responseSize > 0 {
		httpResponseSize.Record(ctx, responseSize, attrs)
	}
}

func IncrementInFlightRequests(ctx context.Context, method, route string) {
	addInFlight(ctx, method, route, 1)
}

func DecrementInFlightRequests(ctx context.Context, method, route string) {
	addInFlight(ctx, method, route, -1)
}

func addInFlight(ctx context.Context, method, route string, delta int64) {
	if httpRequestsInFlight == nil {
		return
	}
	httpRequestsInFlight.Add(ctx, delta, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	))
}

// RecordDownstreamCall records one backend call by operation name.
func RecordDownstreamCall(ctx context.Context, operation string, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	)

	if downstreamCallsTotal != nil {
		downstreamCallsTotal.Add(ctx, 1, attrs)
	}
	if downstreamCallDuration != nil {
		downstreamCallDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func RecordSessionTransition(ctx context.Context, from, to string) {
	if sessionTransitionsTotal == nil {
		return
	}
	sessionTransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func RecordLinkClick(ctx context.Context, mode string, success bool) {
	if linkClicksTotal == nil {
		return
	}
	linkClicksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("success", success),
	))
}
