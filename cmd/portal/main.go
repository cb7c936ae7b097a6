package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/octabyte/bm-talentportal/backend"
	"github.com/octabyte/bm-talentportal/config"
	"github.com/octabyte/bm-talentportal/db/mongo"
	"github.com/octabyte/bm-talentportal/db/postgres"
	"github.com/octabyte/bm-talentportal/db/redis"
	portalecho "github.com/octabyte/bm-talentportal/interfaces/http/echo"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/handlers"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-talentportal/otel"
	"github.com/octabyte/bm-talentportal/otel/metrics"
	"github.com/octabyte/bm-talentportal/queue"
	"github.com/octabyte/bm-talentportal/session"
	"github.com/octabyte/bm-talentportal/stream"
	"github.com/octabyte/bm-talentportal/tracking"
	"github.com/octabyte/bm-talentportal/utils/logger"
)

const purgeInterval = 15 * time.Minute

var version = "dev"

func main() {
	cfg, err := config.Load(".env.local", ".env")
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{Level: cfg.LogLevel, Env: cfg.Env, ServiceName: cfg.ServiceName}); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		logger.LogFatal("portal stopped", zap.Error(err))
	}
	logger.LogInfo("portal shut down gracefully")
}

// closer runs on shutdown in reverse registration order.
type closer func(context.Context) error

func run(ctx context.Context, cfg config.Config) (err error) {
	var closers []closer
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](shutdownCtx); cerr != nil {
				logger.LogWarn("shutdown step failed", zap.Error(cerr))
			}
		}
	}()

	shutdownOtel, err := otel.InitOpenTelemetry(ctx, otel.OtelConfig{
		Enabled:        cfg.Otel.Enabled,
		Endpoint:       cfg.Otel.Endpoint,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Headers:        cfg.Otel.Headers,
		Environment:    cfg.Env,
		SampleRate:     cfg.Otel.SampleRate,
	})
	if err != nil {
		return err
	}
	closers = append(closers, func(context.Context) error { shutdownOtel(); return nil })

	if err := metrics.Init(cfg.ServiceName); err != nil {
		return err
	}

	api := backend.New(backend.Options{
		BaseURL:     cfg.API.BaseURL,
		ServiceName: cfg.ServiceName,
		Timeout:     cfg.API.Timeout,
		RateLimit:   cfg.API.RateLimit,
		Burst:       cfg.API.Burst,
	})

	g, gctx := errgroup.WithContext(ctx)

	tokens, err := tokenStorage(gctx, g, cfg, &closers)
	if err != nil {
		return err
	}

	sessions := session.NewManager(tokens, api)
	if err := sessions.Init(ctx); err != nil {
		return err
	}
	closers = append(closers, sessions.Dispose)

	tracker, err := clickTracker(gctx, g, cfg, api, &closers)
	if err != nil {
		return err
	}

	h := handlers.New(api, tracker, handlers.Config{
		LoginPath:       cfg.Session.LoginPath,
		HomePath:        cfg.Session.HomePath,
		SchedulingURL:   cfg.Tracking.SchedulingURL,
		RedirectDelay:   cfg.Tracking.RedirectDelay,
		MaxResumeBytes:  cfg.Upload.MaxResumeBytes,
		MaxPictureBytes: cfg.Upload.MaxPictureBytes,
	})

	srv := portalecho.NewServer(portalecho.ServerConfig{
		Addr:            cfg.HTTP.Addr(),
		ServiceName:     cfg.ServiceName,
		LogLevel:        cfg.LogLevel,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		BodyLimit:       bodyLimit(cfg.Upload),
		LoginPath:       cfg.Session.LoginPath,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			TTL:        cfg.Session.TTL,
		},
	}, sessions, h)

	g.Go(func() error {
		logger.LogInfo("portal listening",
			zap.String("addr", cfg.HTTP.Addr()),
			zap.String("backend", api.BaseURL()),
			zap.String("storage", cfg.Session.Storage))
		err := srv.Run(gctx)
		if errors.Is(err, portalecho.ErrServerClosed) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func tokenStorage(ctx context.Context, g *errgroup.Group, cfg config.Config, closers *[]closer) (session.TokenStorage, error) {
	switch cfg.Session.Storage {
	case config.StorageRedis:
		client, err := redis.NewRedisClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return client.Close() })
		return redis.NewTokenStorage(client, cfg.Session.TTL), nil

	case config.StoragePostgres:
		db, err := postgres.NewPostgresClient(ctx, postgres.Config{
			ConnectionString: cfg.Postgres.DSN,
			EnableTracing:    cfg.Otel.Enabled,
			ServiceName:      cfg.ServiceName,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return postgres.Close(db) })

		storage := postgres.NewTokenStorage(db, cfg.Session.TTL)
		if err := storage.Migrate(ctx); err != nil {
			return nil, err
		}
		g.Go(func() error {
			purgeExpired(ctx, storage)
			return nil
		})
		return storage, nil

	case config.StorageMongo:
		client, err := mongo.NewMongoClient(ctx, mongo.Config{
			URI:           cfg.Mongo.URI,
			Database:      cfg.Mongo.Database,
			EnableTracing: cfg.Otel.Enabled,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(ctx context.Context) error { return mongo.Disconnect(ctx, client) })

		storage := mongo.NewTokenStorage(client.Database(cfg.Mongo.Database), cfg.Session.TTL)
		if err := storage.Migrate(ctx); err != nil {
			return nil, err
		}
		return storage, nil

	default:
		logger.LogWarn("session tokens are kept in memory and lost on restart")
		return session.NewMemoryStorage(), nil
	}
}

func purgeExpired(ctx context.Context, storage *postgres.TokenStorage) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := storage.PurgeExpired(ctx)
			if err != nil {
				logger.LogWarn("purging expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.LogInfo("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}

// clickTracker builds the direct tracker, or the queued tracker and its
// worker when a broker is configured. A stream, when configured, receives
// a copy of every click.
func clickTracker(ctx context.Context, g *errgroup.Group, cfg config.Config, api *backend.Client, closers *[]closer) (tracking.Tracker, error) {
	var trackers tracking.Multi

	if !cfg.Tracking.QueuedTracking() {
		direct := tracking.NewDirectTracker(api, 0)
		*closers = append(*closers, func(context.Context) error { direct.Wait(); return nil })
		trackers = append(trackers, direct)
	} else {
		conn, err := queue.NewConnection(queue.ConnectionConfig{
			URI: cfg.Tracking.AMQPURI,
			Queue: &queue.Config{
				Name:    cfg.Tracking.Queue,
				Type:    queue.QueueTypeQuorum,
				Durable: true,
			},
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return conn.Close() })

		pubCh, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		publisher := queue.NewPublisher(pubCh, queue.PublishConfig{
			RoutingKey:   cfg.Tracking.Queue,
			ContentType:  "application/json",
			DeliveryMode: 2,
		})
		queued := tracking.NewQueuedTracker(publisher, 0)
		*closers = append(*closers, func(context.Context) error { return queued.Close() })
		trackers = append(trackers, queued)

		consumer, err := queue.NewConsumerWithRetry(conn.Ch, queue.ConsumeWithRetryConfig{
			Queue:      cfg.Tracking.Queue,
			Consumer:   cfg.ServiceName + "-clicks-" + strconv.Itoa(os.Getpid()),
			MaxRetries: cfg.Tracking.MaxRetries,
			RetryDelay: cfg.Tracking.RetryDelay,
		})
		if err != nil {
			return nil, err
		}
		worker := tracking.NewWorker(consumer, api)
		g.Go(func() error { return worker.Run(ctx) })
	}

	if cfg.Tracking.StreamedTracking() {
		env, err := stream.NewEnvironment(stream.EnvironmentConfig{Url: cfg.Tracking.StreamURI})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return env.Close() })

		if err := stream.DeclareStream(env, cfg.Tracking.StreamName, cfg.Tracking.StreamMaxSize); err != nil {
			return nil, err
		}
		producer, err := stream.CreateProducer(env, stream.ProducerConfig{
			ProducerName: cfg.ServiceName,
			StreamName:   cfg.Tracking.StreamName,
		})
		if err != nil {
			return nil, err
		}
		streamed := tracking.NewStreamTracker(producer, 0)
		*closers = append(*closers, func(context.Context) error { return streamed.Close() })
		trackers = append(trackers, streamed)
	}

	if len(trackers) == 1 {
		return trackers[0], nil
	}
	return trackers, nil
}

// bodyLimit admits the largest upload plus room for multipart framing.
func bodyLimit(u config.Upload) string {
	largest := u.MaxResumeBytes
	if u.MaxPictureBytes > largest {
		largest = u.MaxPictureBytes
	}
	return strconv.FormatInt((largest+(1<<20))>>10, 10) + "K"
}
