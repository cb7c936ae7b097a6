package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-talentportal/backend"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/validation"
)

const (
	msgAlreadyApplied = "You have already applied to this job."
	msgJobNotFound    = "This job is no longer available."
	msgJobDeleted     = "Job posting deleted."
)

func (h *Handler) ListJobs(c echo.Context) error {
	var q models.JobQuery
	if err := bind(c, &q); err != nil {
		return h.fail(c, err)
	}

	token, _ := caller(c)
	data, err := h.backend.ListJobs(c.Request().Context(), token, q)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) GetJob(c echo.Context) error {
	token, _ := caller(c)
	data, err := h.backend.GetJob(c.Request().Context(), token, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

// ApplyToJob maps the backend's 401 to "already applied" rather than a
// session failure.
func (h *Handler) ApplyToJob(c echo.Context) error {
	var app models.JobApplication
	if err := bind(c, &app); err != nil {
		return h.fail(c, err)
	}

	token, _ := caller(c)
	data, err := h.backend.ApplyToJob(c.Request().Context(), token, c.Param("id"), app)
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return message(c, http.StatusConflict, models.ViewStatusError, msgAlreadyApplied)
	case errors.Is(err, backend.ErrNotFound):
		return message(c, http.StatusNotFound, models.ViewStatusError, msgJobNotFound)
	case err != nil:
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, models.View{Status: models.ViewStatusOK, Data: data})
}

func (h *Handler) ListApplications(c echo.Context) error {
	token, user := caller(c)
	data, err := h.backend.ListApplications(c.Request().Context(), token, user.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) ListCompanyJobs(c echo.Context) error {
	token, _ := caller(c)
	data, err := h.backend.ListCompanyJobs(c.Request().Context(), token)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) CreateCompanyJob(c echo.Context) error {
	var job models.JobPosting
	if err := bind(c, &job); err != nil {
		return h.fail(c, err)
	}

	token, _ := caller(c)
	data, err := h.backend.CreateCompanyJob(c.Request().Context(), token, job)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, models.View{Status: models.ViewStatusOK, Data: data})
}

func (h *Handler) DeleteCompanyJob(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return h.fail(c, validation.FieldError("id", "is required"))
	}

	token, _ := caller(c)
	if err := h.backend.DeleteCompanyJob(c.Request().Context(), token, id); err != nil {
		return h.fail(c, err)
	}
	return message(c, http.StatusOK, models.ViewStatusOK, msgJobDeleted)
}
