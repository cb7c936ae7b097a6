package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"

	portallogger "github.com/octabyte/bm-talentportal/utils/logger"
)

// Config holds the configuration for the MongoDB client
type Config struct {
	URI            string        // MongoDB connection URI (required)
	Database       string        // Database holding the portal collections (required)
	ConnectTimeout time.Duration // Connection timeout (default: 10s)
	MaxPoolSize    uint64        // Max connection pool size (default: 100)
	MinPoolSize    uint64        // Min connection pool size (default: 0)
	EnableTracing  bool          // Enable OpenTelemetry command monitoring
}

// NewMongoClient connects and pings MongoDB.
func NewMongoClient(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = cfg.withDefaults()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)
	if cfg.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.EnableTracing {
		clientOpts.SetMonitor(otelmongo.NewMonitor())
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	portallogger.LogInfo("connected to MongoDB",
		zap.String("uri", maskURI(cfg.URI)),
		zap.String("database", cfg.Database))

	return client, nil
}

func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, nil)
}

func Disconnect(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

func (cfg Config) Validate() error {
	if cfg.URI == "" {
		return fmt.Errorf("MongoDB URI is required")
	}
	if cfg.Database == "" {
		return fmt.Errorf("MongoDB database is required")
	}
	if cfg.MaxPoolSize > 0 && cfg.MinPoolSize > cfg.MaxPoolSize {
		return fmt.Errorf("MinPoolSize (%d) cannot be greater than MaxPoolSize (%d)", cfg.MinPoolSize, cfg.MaxPoolSize)
	}
	return nil
}

func (cfg Config) withDefaults() Config {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 100
	}
	return cfg
}

// maskURI hides the credentials of a connection URI for logging.
func maskURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User == nil {
		return u.String()
	}
	u.User = nil
	prefix := u.Scheme + "://"
	return prefix + "***@" + strings.TrimPrefix(u.String(), prefix)
}
