package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

type Config struct {
	Env         string `validate:"required"`
	ServiceName string `validate:"required"`
	LogLevel    string
	HTTP        HTTP
	API         API
	Session     Session
	Redis       Redis
	Postgres    Postgres
	Mongo       Mongo
	Tracking    Tracking
	Upload      Upload
	Otel        Otel
}

type HTTP struct {
	Host            string
	Port            int `validate:"min=1,max=65535"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// API is the single backend origin every resource view talks to.
type API struct {
	BaseURL   string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
	RateLimit float64       `validate:"gte=0"`
	Burst     int           `validate:"gte=0"`
}

type Session struct {
	CookieName   string        `validate:"required"`
	CookieSecure bool
	TTL          time.Duration `validate:"gt=0"`
	Storage      string        `validate:"oneof=memory redis postgres mongo"`
	LoginPath    string        `validate:"required,startswith=/"`
	HomePath     string        `validate:"required,startswith=/"`
}

type Redis struct {
	Addr     string `validate:"required_if=Enabled true"`
	Password string
	DB       int
	Enabled  bool
}

type Postgres struct {
	DSN     string `validate:"required_if=Enabled true"`
	Enabled bool
}

type Mongo struct {
	URI      string `validate:"required_if=Enabled true"`
	Database string `validate:"required_if=Enabled true"`
	Enabled  bool
}

type Tracking struct {
	SchedulingURL string        `validate:"required,url"`
	RedirectDelay time.Duration `validate:"gte=0"`
	AMQPURI       string
	Queue         string `validate:"required"`
	MaxRetries    int    `validate:"gte=0"`
	RetryDelay    time.Duration
	StreamURI     string
	StreamName    string `validate:"required_with=StreamURI"`
	StreamMaxSize int64  `validate:"gte=0"`
}

type Upload struct {
	MaxResumeBytes  int64 `validate:"gt=0"`
	MaxPictureBytes int64 `validate:"gt=0"`
}

type Otel struct {
	Enabled    bool
	Endpoint   string  `validate:"required_if=Enabled true"`
	SampleRate float64 `validate:"gte=0,lte=1"`
	Headers    map[string]string
}

// Load reads the configuration from the environment. envFiles are loaded
// first when present; variables already set in the process win.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	storage := getEnv("PORTAL_SESSION_STORAGE", StorageMemory)
	r := &envReader{}

	cfg := Config{
		Env:         getEnv("PORTAL_ENV", "development"),
		ServiceName: getEnv("PORTAL_SERVICE_NAME", "talent-portal"),
		LogLevel:    getEnv("PORTAL_LOG_LEVEL", "info"),
		HTTP: HTTP{
			Host:            getEnv("PORTAL_HTTP_HOST", "0.0.0.0"),
			Port:            r.getInt("PORTAL_HTTP_PORT", 3000),
			ReadTimeout:     r.getDuration("PORTAL_HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    r.getDuration("PORTAL_HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: r.getDuration("PORTAL_HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		API: API{
			BaseURL:   strings.TrimRight(getEnv("PORTAL_API_BASE_URL", ""), "/"),
			Timeout:   r.getDuration("PORTAL_API_TIMEOUT", 15*time.Second),
			RateLimit: r.getFloat("PORTAL_API_RATE_LIMIT", 0),
			Burst:     r.getInt("PORTAL_API_BURST", 20),
		},
		Session: Session{
			CookieName:   getEnv("PORTAL_SESSION_COOKIE", "portal_session"),
			CookieSecure: r.getBool("PORTAL_SESSION_COOKIE_SECURE", false),
			TTL:          r.getDuration("PORTAL_SESSION_TTL", 7*24*time.Hour),
			Storage:      storage,
			LoginPath:    getEnv("PORTAL_LOGIN_PATH", "/login"),
			HomePath:     getEnv("PORTAL_HOME_PATH", "/admin/dashboard"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       r.getInt("REDIS_DB", 0),
			Enabled:  storage == StorageRedis,
		},
		Postgres: Postgres{
			DSN:     getEnv("DATABASE_URL", ""),
			Enabled: storage == StoragePostgres,
		},
		Mongo: Mongo{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "portal"),
			Enabled:  storage == StorageMongo,
		},
		Tracking: Tracking{
			SchedulingURL: getEnv("PORTAL_SCHEDULING_URL", "https://calendly.com"),
			RedirectDelay: r.getDuration("PORTAL_TRACKING_REDIRECT_DELAY", 3*time.Second),
			AMQPURI:       getEnv("PORTAL_TRACKING_AMQP_URI", ""),
			Queue:         getEnv("PORTAL_TRACKING_QUEUE", "portal.link-clicks"),
			MaxRetries:    r.getInt("PORTAL_TRACKING_MAX_RETRIES", 3),
			RetryDelay:    r.getDuration("PORTAL_TRACKING_RETRY_DELAY", 10*time.Second),
			StreamURI:     getEnv("PORTAL_TRACKING_STREAM_URI", ""),
			StreamName:    getEnv("PORTAL_TRACKING_STREAM", "portal.link-clicks.stream"),
			StreamMaxSize: int64(r.getInt("PORTAL_TRACKING_STREAM_MAX_BYTES", 1<<30)),
		},
		Upload: Upload{
			MaxResumeBytes:  int64(r.getInt("PORTAL_UPLOAD_MAX_RESUME_BYTES", 5<<20)),
			MaxPictureBytes: int64(r.getInt("PORTAL_UPLOAD_MAX_PICTURE_BYTES", 2<<20)),
		},
		Otel: Otel{
			Enabled:    r.getBool("OTEL_ENABLED", false),
			Endpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRate: r.getFloat("OTEL_SAMPLE_RATE", 1.0),
			Headers:    getMap("OTEL_EXPORTER_OTLP_HEADERS"),
		},
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (h HTTP) Addr() string {
	return h.Host + ":" + strconv.Itoa(h.Port)
}

// QueuedTracking reports whether click events go through RabbitMQ.
func (t Tracking) QueuedTracking() bool {
	return t.AMQPURI != ""
}

// StreamedTracking reports whether clicks are also appended to a stream.
func (t Tracking) StreamedTracking() bool {
	return t.StreamURI != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// envReader parses typed variables and collects every malformed value so
// Load reports them together.
type envReader struct {
	errs []error
}

func (r *envReader) fail(key, value string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (r *envReader) getInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return n
}

func (r *envReader) getFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return f
}

func (r *envReader) getBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return b
}

func (r *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return d
}

// getMap parses "k1=v1,k2=v2" as used by the OTLP header variable.
func getMap(key string) map[string]string {
	value := getEnv(key, "")
	if value == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}
