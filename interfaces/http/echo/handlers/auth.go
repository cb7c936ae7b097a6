package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-talentportal/backend"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
)

const (
	msgBadCredentials = "Invalid email or password."
	msgEmailTaken     = "An account with this email already exists."
)

// AuthPage serves /login and /register. It always renders; a signed in
// caller gets the home path as a hint.
func (h *Handler) AuthPage(c echo.Context) error {
	view := models.View{Status: models.ViewStatusOK}
	if store := middleware.GetSessionStore(c); store != nil {
		if snap, _ := store.FetchUser(c.Request().Context()); snap.Authenticated() {
			view.Redirect = h.cfg.HomePath
		}
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Login(c echo.Context) error {
	var creds models.Credentials
	if err := bind(c, &creds); err != nil {
		return h.fail(c, err)
	}

	token, err := h.backend.Login(c.Request().Context(), creds)
	if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrNotFound) {
		return message(c, http.StatusUnauthorized, models.ViewStatusError, msgBadCredentials)
	}
	if err != nil {
		return h.fail(c, err)
	}

	return h.startSession(c, token)
}

func (h *Handler) Register(c echo.Context) error {
	var reg models.Registration
	if err := bind(c, &reg); err != nil {
		return h.fail(c, err)
	}

	token, err := h.backend.Register(c.Request().Context(), reg)
	if errors.Is(err, backend.ErrConflict) {
		return c.JSON(http.StatusConflict, models.View{
			Status:  models.ViewStatusError,
			Message: msgEmailTaken,
			Fields:  map[string]string{"email": "is already registered"},
		})
	}
	if err != nil {
		return h.fail(c, err)
	}

	return h.startSession(c, token)
}

// startSession stores the new token and hydrates the session right away so
// the response already carries the user.
func (h *Handler) startSession(c echo.Context, token string) error {
	ctx := c.Request().Context()

	store, err := middleware.EnsureSessionStore(c)
	if err != nil {
		logger.ErrorCtx(ctx, "issuing session", err)
		return message(c, http.StatusServiceUnavailable, models.ViewStatusError, msgGeneric)
	}
	if err := store.Login(ctx, token); err != nil {
		logger.ErrorCtx(ctx, "storing session token", err)
		return message(c, http.StatusServiceUnavailable, models.ViewStatusError, msgGeneric)
	}

	snap, err := store.FetchUser(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	if !snap.Authenticated() {
		return message(c, http.StatusBadGateway, models.ViewStatusError, msgGeneric)
	}

	data, err := sessionData(snap)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.View{
		Status:   models.ViewStatusOK,
		Redirect: h.cfg.HomePath,
		Data:     data,
	})
}

// Logout ends the session and sends the caller to the login path.
func (h *Handler) Logout(c echo.Context) error {
	if store := middleware.GetSessionStore(c); store != nil {
		store.Logout(c.Request().Context())
	}

	if !middleware.WantsJSON(c) {
		return c.Redirect(http.StatusSeeOther, h.cfg.LoginPath)
	}
	return c.JSON(http.StatusOK, models.View{Status: models.ViewStatusOK, Redirect: h.cfg.LoginPath})
}
