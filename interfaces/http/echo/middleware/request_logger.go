package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/otel/metrics"
)

// RequestLogger writes one structured line per request with its trace id.
func RequestLogger(skipper echomw.Skipper) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		Skipper:      skipper,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			ctx := c.Request().Context()
			switch {
			case v.Error != nil:
				logger.ErrorCtx(ctx, "request", v.Error, fields...)
			case v.Status >= 500:
				logger.WarnCtx(ctx, "request", fields...)
			default:
				logger.InfoCtx(ctx, "request", fields...)
			}
			return nil
		},
	})
}

// Metrics records request counts, durations and in-flight requests. Handler
// errors are rendered first so the recorded status is final, then passed on
// to the outer middleware.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			method := c.Request().Method
			route := c.Path()

			metrics.IncrementInFlightRequests(ctx, method, route)
			defer metrics.DecrementInFlightRequests(ctx, method, route)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			metrics.RecordHTTPRequest(ctx, method, route, c.Response().Status, time.Since(start), c.Response().Size)
			return err
		}
	}
}
