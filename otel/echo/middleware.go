package echo

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	portalctx "github.com/octabyte/bm-talentportal/utils/context"
)

// Middleware instruments inbound portal requests. It adds the route and, when
// the session middleware ran, the session state and role of the caller.
func Middleware(serviceName string) echo.MiddlewareFunc {
	return MiddlewareWithConfig(serviceName, nil)
}

// MiddlewareWithConfig is Middleware with a skipper (health checks, static assets).
func MiddlewareWithConfig(serviceName string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	baseMiddleware := otelecho.Middleware(serviceName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// otelecho ends the span and restores the request context on return,
		// so attributes are added from inside the traced handler.
		traced := baseMiddleware(func(c echo.Context) error {
			err := next(c)
			annotate(c, err)
			return err
		})

		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}
			return traced(c)
		}
	}
}

func annotate(c echo.Context, err error) {
	span := trace.SpanFromContext(c.Request().Context())
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.String("http.route", c.Path()))

	if store := portalctx.GetSessionStoreFromContext(c.Request().Context()); store != nil {
		snapshot := store.Snapshot()
		span.SetAttributes(attribute.String("portal.session.state", string(snapshot.State)))
		if snapshot.User != nil {
			span.SetAttributes(attribute.String("portal.user.role", string(snapshot.User.Role)))
		}
	}

	if err != nil {
		span.SetAttributes(attribute.String("error.message", err.Error()))
	}
}
