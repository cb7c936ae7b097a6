package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-talentportal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/navigation"
	"github.com/octabyte/bm-talentportal/utils"
)

func snapshot(c echo.Context) *models.Session {
	if store := middleware.GetSessionStore(c); store != nil {
		snap := store.Snapshot()
		return &snap
	}
	return nil
}

func sessionData(snap models.Session) (json.RawMessage, error) {
	return utils.StructToBytes(snap)
}

// Me returns the signed in user.
func (h *Handler) Me(c echo.Context) error {
	snap := snapshot(c)
	if snap == nil || snap.User == nil {
		return echo.ErrUnauthorized
	}
	return renderValue(c, http.StatusOK, snap)
}

// Navigation returns the role menu of the session.
func (h *Handler) Navigation(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": models.ViewStatusOK,
		"data":   navigation.ForSession(snapshot(c)),
	})
}

// Dashboard is the landing view: who is signed in and where they can go.
func (h *Handler) Dashboard(c echo.Context) error {
	snap := snapshot(c)
	if snap == nil || snap.User == nil {
		return echo.ErrUnauthorized
	}
	return renderValue(c, http.StatusOK, struct {
		User *models.User      `json:"user"`
		Menu []models.MenuItem `json:"menu"`
	}{snap.User, navigation.ForSession(snap)})
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
