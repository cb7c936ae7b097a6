package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/guard"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/navigation"
	"github.com/octabyte/bm-talentportal/otel/logger"
)

// RouteGuard hydrates the session once per request and applies the guard
// decision. Unauthenticated navigations go to the login path, JSON callers
// get a 401 naming it instead. A session still loading answers 503 with
// Retry-After.
func RouteGuard(g guard.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if guard.Classify(path) != guard.Protected {
				return next(c)
			}

			state := enums.SessionStateUnauthenticated
			if store := GetSessionStore(c); store != nil {
				snap, err := store.FetchUser(c.Request().Context())
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.WarnCtx(c.Request().Context(), "session fetch interrupted", zap.Error(err))
				}
				state = snap.State
			}

			decision := g.Decide(state, path)
			switch decision.Action {
			case guard.Redirect:
				if WantsJSON(c) {
					return c.JSON(http.StatusUnauthorized, models.View{
						Status:   models.ViewStatusError,
						Message:  "authentication required",
						Redirect: decision.Location,
					})
				}
				return c.Redirect(http.StatusSeeOther, decision.Location)
			case guard.Wait:
				c.Response().Header().Set(RetryAfter, "1")
				return c.JSON(http.StatusServiceUnavailable, models.View{Status: models.ViewStatusLoading})
			default:
				return next(c)
			}
		}
	}
}

// RequireMenuEntry rejects routes outside the signed in role's menu.
func RequireMenuEntry() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := GetSessionStore(c)
			if store == nil {
				return echo.ErrUnauthorized
			}
			user := store.User()
			if user == nil || !navigation.Allowed(user.Role, c.Path()) {
				return c.JSON(http.StatusForbidden, models.View{
					Status:  models.ViewStatusError,
					Message: "this page is not available for your account",
				})
			}
			return next(c)
		}
	}
}

// WantsJSON reports whether the caller is an API client rather than a
// browser navigation.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	accept := req.Header.Get(echo.HeaderAccept)
	if strings.Contains(accept, echo.MIMEApplicationJSON) {
		return true
	}
	if strings.Contains(accept, echo.MIMETextHTML) {
		return false
	}
	return req.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" || accept == "" || accept == "*/*"
}
