package middleware

import (
	"github.com/labstack/echo/v4"

	portalctx "github.com/octabyte/bm-talentportal/utils/context"
)

// SetTokenInContext exposes the bearer token of an authenticated session to
// handlers. It must run after RouteGuard.
func SetTokenInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := GetSessionStore(c)
			if store == nil {
				return next(c)
			}

			token := store.Token()
			c.Set(TokenKey, token)
			c.SetRequest(c.Request().WithContext(portalctx.WithToken(c.Request().Context(), token)))
			return next(c)
		}
	}
}

func GetToken(c echo.Context) string {
	if token, ok := c.Get(TokenKey).(string); ok {
		return token
	}
	return portalctx.GetTokenFromContext(c.Request().Context())
}
