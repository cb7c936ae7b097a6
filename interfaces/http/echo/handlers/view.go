package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/backend"
	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/utils"
	"github.com/octabyte/bm-talentportal/validation"
)

const (
	msgGeneric        = "Something went wrong. Please try again."
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgForbidden      = "You don't have access to this."
	msgNotFound       = "We couldn't find what you were looking for."
	msgConflict       = "This already exists."
	msgInvalidFields  = "Please correct the highlighted fields."
)

// render wraps a backend payload in the view envelope. Bodies with nothing
// to show render as empty.
func render(c echo.Context, status int, data json.RawMessage) error {
	if utils.IsEmptyPayload(data) {
		return c.JSON(http.StatusOK, models.View{Status: models.ViewStatusEmpty})
	}
	return c.JSON(status, models.View{Status: models.ViewStatusOK, Data: data})
}

func renderValue(c echo.Context, status int, v interface{}) error {
	data, err := utils.StructToBytes(v)
	if err != nil {
		return err
	}
	return render(c, status, data)
}

func message(c echo.Context, status int, viewStatus, msg string) error {
	return c.JSON(status, models.View{Status: viewStatus, Message: msg})
}

// bind decodes the request into dst and validates it.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	return validation.Struct(dst)
}

// fail maps an error to its view. A rejected token logs the session out.
func (h *Handler) fail(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var verr *validation.Error
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, models.View{
			Status:  models.ViewStatusError,
			Message: msgInvalidFields,
			Fields:  verr.Fields,
		})
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, context.Canceled):
		logger.DebugCtx(ctx, "client went away", zap.Error(err))
		return nil
	case errors.Is(err, backend.ErrUnauthorized):
		if store := middleware.GetSessionStore(c); store != nil {
			store.Logout(ctx)
		}
		if !middleware.WantsJSON(c) {
			return c.Redirect(http.StatusSeeOther, h.cfg.LoginPath)
		}
		return c.JSON(http.StatusUnauthorized, models.View{
			Status:   models.ViewStatusError,
			Message:  msgSessionExpired,
			Redirect: h.cfg.LoginPath,
		})
	case errors.Is(err, backend.ErrForbidden):
		return message(c, http.StatusForbidden, models.ViewStatusError, msgForbidden)
	case errors.Is(err, backend.ErrNotFound):
		return message(c, http.StatusNotFound, models.ViewStatusError, msgNotFound)
	case errors.Is(err, backend.ErrConflict):
		return message(c, http.StatusConflict, models.ViewStatusError, msgConflict)
	default:
		logger.ErrorCtx(ctx, "backend call failed", err, zap.String("route", c.Path()))
		return message(c, http.StatusBadGateway, models.ViewStatusError, msgGeneric)
	}
}

// caller returns the token and user of the authenticated session. The route
// guard has already rejected anonymous requests.
func caller(c echo.Context) (string, *models.User) {
	token := middleware.GetToken(c)
	if store := middleware.GetSessionStore(c); store != nil {
		if user := store.User(); user != nil {
			return token, user
		}
	}
	return token, &models.User{Role: enums.Role("")}
}
