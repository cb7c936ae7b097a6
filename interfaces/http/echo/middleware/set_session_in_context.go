package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/session"
	portalctx "github.com/octabyte/bm-talentportal/utils/context"
)

// SessionSource hands out the store of a session id.
type SessionSource interface {
	Get(sid string) (*session.Store, error)
}

type SessionConfig struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// ErrNoSessionSource is returned by EnsureSessionStore outside
// SetSessionInContext.
var ErrNoSessionSource = errors.New("middleware: no session source")

type sessionIssuer struct {
	cfg      SessionConfig
	sessions SessionSource
}

// SetSessionInContext resolves the caller's session id from the Session
// header or the session cookie and attaches its store to the echo and
// request contexts. Callers without a valid id get no store until a handler
// asks for one with EnsureSessionStore.
func SetSessionInContext(cfg SessionConfig, sessions SessionSource) echo.MiddlewareFunc {
	issuer := &sessionIssuer{cfg: cfg, sessions: sessions}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(SessionIssuerKey, issuer)

			sid := c.Request().Header.Get(SessionHeader)
			if sid == "" {
				cookie, err := c.Cookie(cfg.CookieName)
				if err != nil && !errors.Is(err, http.ErrNoCookie) {
					logger.WarnCtx(c.Request().Context(), "reading session cookie", zap.Error(err))
				}
				if err == nil {
					sid = cookie.Value
				}
			}

			if _, err := uuid.Parse(sid); err != nil {
				return next(c)
			}

			store, err := sessions.Get(sid)
			if err != nil {
				logger.ErrorCtx(c.Request().Context(), "resolving session store", err)
				return c.JSON(http.StatusServiceUnavailable, models.View{
					Status:  models.ViewStatusError,
					Message: "session service unavailable",
				})
			}

			attachStore(c, store)
			return next(c)
		}
	}
}

// EnsureSessionStore returns the caller's store, issuing a new session id
// and cookie when the request carried none.
func EnsureSessionStore(c echo.Context) (*session.Store, error) {
	if store := GetSessionStore(c); store != nil {
		return store, nil
	}

	issuer, ok := c.Get(SessionIssuerKey).(*sessionIssuer)
	if !ok {
		return nil, ErrNoSessionSource
	}

	sid := uuid.NewString()
	store, err := issuer.sessions.Get(sid)
	if err != nil {
		return nil, err
	}
	setSessionCookie(c, issuer.cfg, sid)
	attachStore(c, store)
	return store, nil
}

func attachStore(c echo.Context, store *session.Store) {
	c.Set(RequestSessionKey, store)
	c.SetRequest(c.Request().WithContext(portalctx.WithSessionStore(c.Request().Context(), store)))
}

// GetSessionStore returns the store attached by SetSessionInContext.
func GetSessionStore(c echo.Context) *session.Store {
	if store, ok := c.Get(RequestSessionKey).(*session.Store); ok {
		return store
	}
	return portalctx.GetSessionStoreFromContext(c.Request().Context())
}

func setSessionCookie(c echo.Context, cfg SessionConfig, sid string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
