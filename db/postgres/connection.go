package postgres

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	otelgorm "gorm.io/plugin/opentelemetry/tracing"

	portallogger "github.com/octabyte/bm-talentportal/utils/logger"
)

// Config holds the configuration for the PostgreSQL/GORM client
type Config struct {
	ConnectionString string           // PostgreSQL connection string (DSN) (required)
	MaxOpenConns     int              // Maximum number of open connections (default: 20)
	MaxIdleConns     int              // Maximum number of idle connections (default: 5)
	ConnMaxLifetime  time.Duration    // Maximum lifetime of a connection (default: 1 hour)
	ConnMaxIdleTime  time.Duration    // Maximum idle time of a connection (default: 10 minutes)
	DisablePrepared  bool             // Disable the prepared statement cache
	EnableTracing    bool             // Enable OpenTelemetry tracing
	ServiceName      string           // Service name for tracing
	Logger           logger.Interface // Custom GORM logger (optional)
}

// NewPostgresClient creates a new GORM PostgreSQL client with optional OpenTelemetry instrumentation
func NewPostgresClient(ctx context.Context, cfg Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = cfg.withDefaults()

	gormConfig := &gorm.Config{
		PrepareStmt: !cfg.DisablePrepared,
		Logger:      logger.Default.LogMode(logger.Silent),
	}
	if cfg.Logger != nil {
		gormConfig.Logger = cfg.Logger
	}

	db, err := gorm.Open(postgres.Open(cfg.ConnectionString), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if cfg.EnableTracing {
		if err := db.Use(otelgorm.NewPlugin(otelgorm.WithTracerProvider(otel.GetTracerProvider()))); err != nil {
			portallogger.LogWarn("failed to configure gorm tracing", zap.Error(err))
		}
	}

	portallogger.LogInfo("connected to PostgreSQL", zap.String("dsn", maskConnectionString(cfg.ConnectionString)))

	return db, nil
}

// Ping tests the PostgreSQL connection
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close gracefully closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Validate validates the PostgreSQL configuration
func (cfg Config) Validate() error {
	if cfg.ConnectionString == "" {
		return fmt.Errorf("ConnectionString is required")
	}
	if cfg.EnableTracing && cfg.ServiceName == "" {
		return fmt.Errorf("ServiceName is required when tracing is enabled")
	}
	if cfg.MaxIdleConns > cfg.MaxOpenConns && cfg.MaxOpenConns > 0 {
		return fmt.Errorf("MaxIdleConns (%d) cannot be greater than MaxOpenConns (%d)", cfg.MaxIdleConns, cfg.MaxOpenConns)
	}
	return nil
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 20
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = time.Hour
	}
	if cfg.ConnMaxIdleTime == 0 {
		cfg.ConnMaxIdleTime = 10 * time.Minute
	}
	return cfg
}

// maskConnectionString masks sensitive information in the connection string for logging
func maskConnectionString(connStr string) string {
	if len(connStr) < 20 {
		return "***"
	}
	return connStr[:10] + "***" + connStr[len(connStr)-10:]
}
