package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOpenTelemetry_Disabled(t *testing.T) {
	shutdown, err := InitOpenTelemetry(context.Background(), OtelConfig{Enabled: false})
	require.NoError(t, err)
	shutdown()
}

func TestInitOpenTelemetry_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  OtelConfig
	}{
		{"missing service", OtelConfig{Enabled: true, Endpoint: "localhost:4318"}},
		{"missing endpoint", OtelConfig{Enabled: true, ServiceName: "portal"}},
		{"bad sample rate", OtelConfig{Enabled: true, ServiceName: "portal", Endpoint: "localhost:4318", SampleRate: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InitOpenTelemetry(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestInitOpenTelemetry_Enabled(t *testing.T) {
	cfg := OtelConfig{
		Enabled:     true,
		ServiceName: "portal-test",
		Environment: "test",
		Endpoint:    "localhost:4318",
		Headers:     map[string]string{"authorization": "test-key"},
		SampleRate:  1.0,
	}

	shutdown, err := InitOpenTelemetry(context.Background(), cfg)
	require.NoError(t, err)
	shutdown()
}

func TestNewResource(t *testing.T) {
	res, err := newResource(OtelConfig{ServiceName: "portal-test", Environment: "test"})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestEndpointHost(t *testing.T) {
	host, insecure := endpointHost("https://otel.example.com")
	assert.Equal(t, "otel.example.com", host)
	assert.False(t, insecure)

	host, insecure = endpointHost("http://collector:4318")
	assert.Equal(t, "collector:4318", host)
	assert.True(t, insecure)

	host, insecure = endpointHost("collector:4318")
	assert.Equal(t, "collector:4318", host)
	assert.True(t, insecure)
}
