package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTAL_API_BASE_URL", "https://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, StorageMemory, cfg.Session.Storage)
	assert.Equal(t, "/login", cfg.Session.LoginPath)
	assert.Equal(t, 3*time.Second, cfg.Tracking.RedirectDelay)
	assert.False(t, cfg.Tracking.QueuedTracking())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxResumeBytes)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("PORTAL_API_BASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTAL_API_BASE_URL", "http://localhost:8000")
	t.Setenv("PORTAL_HTTP_PORT", "8081")
	t.Setenv("PORTAL_API_TIMEOUT", "2s")
	t.Setenv("PORTAL_API_RATE_LIMIT", "12.5")
	t.Setenv("PORTAL_SESSION_STORAGE", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("PORTAL_TRACKING_AMQP_URI", "amqp://guest:guest@mq:5672/")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "authorization=key, x-team = portal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 12.5, cfg.API.RateLimit)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Tracking.QueuedTracking())
	assert.Equal(t, map[string]string{"authorization": "key", "x-team": "portal"}, cfg.Otel.Headers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "PORTAL_HTTP_PORT", "70000"},
		{"port not a number", "PORTAL_HTTP_PORT", "abc"},
		{"malformed timeout", "PORTAL_API_TIMEOUT", "fast"},
		{"malformed cookie flag", "PORTAL_SESSION_COOKIE_SECURE", "sometimes"},
		{"unknown storage", "PORTAL_SESSION_STORAGE", "sqlite"},
		{"relative login path", "PORTAL_LOGIN_PATH", "login"},
		{"postgres without dsn", "PORTAL_SESSION_STORAGE", "postgres"},
		{"mongo without uri", "PORTAL_SESSION_STORAGE", "mongo"},
		{"sample rate above one", "OTEL_SAMPLE_RATE", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORTAL_API_BASE_URL", "http://localhost:8000")
			t.Setenv("DATABASE_URL", "")
			t.Setenv("MONGO_URI", "")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("PORTAL_SERVICE_NAME=from-file\n"), 0o600))

	t.Setenv("PORTAL_API_BASE_URL", "http://localhost:8000")
	t.Setenv("PORTAL_SERVICE_NAME", "")
	require.NoError(t, os.Unsetenv("PORTAL_SERVICE_NAME"))

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.ServiceName)
}

func TestEnvReaderCollectsMalformedValues(t *testing.T) {
	t.Setenv("PORTAL_TEST_INT", "nope")
	t.Setenv("PORTAL_TEST_BOOL", "maybe")
	t.Setenv("PORTAL_TEST_DURATION", "soon")

	r := &envReader{}
	assert.Equal(t, 7, r.getInt("PORTAL_TEST_INT", 7))
	assert.True(t, r.getBool("PORTAL_TEST_BOOL", true))
	assert.Equal(t, time.Minute, r.getDuration("PORTAL_TEST_DURATION", time.Minute))
	assert.Equal(t, 2.5, r.getFloat("PORTAL_TEST_UNSET", 2.5))
	assert.Nil(t, getMap("PORTAL_TEST_UNSET"))

	require.Len(t, r.errs, 3)
	assert.Contains(t, r.errs[0].Error(), `PORTAL_TEST_INT="nope"`)
}
