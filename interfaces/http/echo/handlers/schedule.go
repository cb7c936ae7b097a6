package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/tracking"
	"github.com/octabyte/bm-talentportal/validation"
)

// Schedule records a visit to the tracked scheduling link and forwards the
// visitor to the booking page after a short delay. Tracking never blocks
// the redirect.
func (h *Handler) Schedule(c echo.Context) error {
	click, err := tracking.NewClick(c.QueryParam("email"), c.QueryParam("name"), time.Now())
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, models.View{
			Status:  models.ViewStatusError,
			Message: msgInvalidFields,
			Fields:  verr.Fields,
		})
	}

	h.tracker.Track(c.Request().Context(), click)

	target := tracking.Destination(h.cfg.SchedulingURL, click)
	page, err := tracking.RedirectPage(target, h.cfg.RedirectDelay)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Refresh", tracking.RefreshHeader(target, h.cfg.RedirectDelay))
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.HTMLBlob(http.StatusOK, page)
}
