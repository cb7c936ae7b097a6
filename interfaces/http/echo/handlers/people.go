package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/validation"
)

func (h *Handler) ListTalents(c echo.Context) error {
	search := c.QueryParam("q")
	if len(search) > 100 {
		return h.fail(c, validation.FieldError("q", "must be at most 100 characters"))
	}

	token, _ := caller(c)
	data, err := h.backend.ListTalents(c.Request().Context(), token, search)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) GetTalent(c echo.Context) error {
	token, _ := caller(c)
	data, err := h.backend.GetTalent(c.Request().Context(), token, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) ListProposals(c echo.Context) error {
	token, user := caller(c)
	data, err := h.backend.ListProposals(c.Request().Context(), token, user.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) CreateProposal(c echo.Context) error {
	var p models.Proposal
	if err := bind(c, &p); err != nil {
		return h.fail(c, err)
	}

	token, _ := caller(c)
	data, err := h.backend.CreateProposal(c.Request().Context(), token, p)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, models.View{Status: models.ViewStatusOK, Data: data})
}

func (h *Handler) ListConnections(c echo.Context) error {
	token, _ := caller(c)
	data, err := h.backend.ListConnections(c.Request().Context(), token)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) RequestConnection(c echo.Context) error {
	var req models.ConnectionRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	if req.UserID == user.ID {
		return h.fail(c, validation.FieldError("user_id", "cannot be yourself"))
	}

	data, err := h.backend.RequestConnection(c.Request().Context(), token, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, models.View{Status: models.ViewStatusOK, Data: data})
}

func (h *Handler) AcceptConnection(c echo.Context) error {
	var req models.ConnectionAccept
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	token, _ := caller(c)
	data, err := h.backend.AcceptConnection(c.Request().Context(), token, req)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) ConnectionStatus(c echo.Context) error {
	token, _ := caller(c)
	data, err := h.backend.ConnectionStatus(c.Request().Context(), token, c.Param("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) MutualConnections(c echo.Context) error {
	token, _ := caller(c)
	data, err := h.backend.MutualConnections(c.Request().Context(), token, c.Param("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) Follow(c echo.Context) error {
	token, user := caller(c)
	target := c.Param("userId")
	if target == user.ID {
		return h.fail(c, validation.FieldError("user_id", "cannot be yourself"))
	}

	data, err := h.backend.Follow(c.Request().Context(), token, target)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

// BillingHistory renders payments in the time zone given by ?tz, UTC by
// default.
func (h *Handler) BillingHistory(c echo.Context) error {
	token, _ := caller(c)
	history, err := h.backend.BillingHistory(c.Request().Context(), token, c.QueryParam("tz"))
	if err != nil {
		return h.fail(c, err)
	}
	if len(history.Payments) == 0 {
		return c.JSON(http.StatusOK, models.View{Status: models.ViewStatusEmpty})
	}
	return renderValue(c, http.StatusOK, history)
}
