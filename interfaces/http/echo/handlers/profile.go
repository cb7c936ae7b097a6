package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/octabyte/bm-talentportal/backend"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/utils"
	"github.com/octabyte/bm-talentportal/validation"
)

const (
	msgExperienceDeleted = "Experience removed."
	msgUnknownSection    = "Unknown profile section."
)

var profileSections = []backend.ProfileSection{
	backend.SectionBio,
	backend.SectionExperience,
	backend.SectionSkills,
	backend.SectionLinks,
}

// Profile loads every section concurrently. A missing section renders as
// null instead of failing the page.
func (h *Handler) Profile(c echo.Context) error {
	token, user := caller(c)

	results := make([]json.RawMessage, len(profileSections))
	g, ctx := errgroup.WithContext(c.Request().Context())
	for i, section := range profileSections {
		i, section := i, section
		g.Go(func() error {
			data, err := h.backend.GetProfileSection(ctx, token, user.Role, section)
			if errors.Is(err, backend.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return h.fail(c, err)
	}

	profile := make(map[string]json.RawMessage, len(profileSections))
	for i, section := range profileSections {
		if utils.IsEmptyPayload(results[i]) {
			profile[string(section)] = json.RawMessage("null")
			continue
		}
		profile[string(section)] = results[i]
	}
	return renderValue(c, http.StatusOK, profile)
}

func (h *Handler) ProfileSection(c echo.Context) error {
	section := backend.ProfileSection(c.Param("section"))
	if !section.Valid() {
		return message(c, http.StatusNotFound, models.ViewStatusError, msgUnknownSection)
	}

	token, user := caller(c)
	data, err := h.backend.GetProfileSection(c.Request().Context(), token, user.Role, section)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) UpdateBio(c echo.Context) error {
	var bio models.Bio
	if err := bind(c, &bio); err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	data, err := h.backend.UpdateBio(c.Request().Context(), token, user.Role, bio)
	if err != nil {
		return h.fail(c, err)
	}
	h.refresh(c)
	return render(c, http.StatusOK, data)
}

func (h *Handler) AddExperience(c echo.Context) error {
	var exp models.Experience
	if err := bind(c, &exp); err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	data, err := h.backend.AddExperience(c.Request().Context(), token, user.Role, exp)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, models.View{Status: models.ViewStatusOK, Data: data})
}

func (h *Handler) DeleteExperience(c echo.Context) error {
	token, user := caller(c)
	if err := h.backend.DeleteExperience(c.Request().Context(), token, user.Role, c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return message(c, http.StatusOK, models.ViewStatusOK, msgExperienceDeleted)
}

func (h *Handler) UpdateSkills(c echo.Context) error {
	var skills models.Skills
	if err := bind(c, &skills); err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	data, err := h.backend.UpdateSkills(c.Request().Context(), token, user.Role, skills)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) UpdateLinks(c echo.Context) error {
	var links models.Links
	if err := bind(c, &links); err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	data, err := h.backend.UpdateLinks(c.Request().Context(), token, user.Role, links)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

func (h *Handler) UploadResume(c echo.Context) error {
	file, err := readUpload(c, validation.ResumeRule(h.cfg.MaxResumeBytes))
	if err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	data, err := h.backend.UploadResume(c.Request().Context(), token, user.Role, file)
	if err != nil {
		return h.fail(c, err)
	}
	return render(c, http.StatusOK, data)
}

// UploadPicture also refreshes the session so the new avatar shows up in
// the user returned by /api/me.
func (h *Handler) UploadPicture(c echo.Context) error {
	file, err := readUpload(c, validation.PictureRule(h.cfg.MaxPictureBytes))
	if err != nil {
		return h.fail(c, err)
	}

	token, user := caller(c)
	data, err := h.backend.UploadPicture(c.Request().Context(), token, user.Role, file)
	if err != nil {
		return h.fail(c, err)
	}
	h.refresh(c)
	return render(c, http.StatusOK, data)
}

// refresh re-reads the user after a mutation that changes it. The mutation
// has already succeeded either way. A rejected token logs the session out
// inside Refresh; a cancelled request leaves the session Loading.
func (h *Handler) refresh(c echo.Context) {
	store := middleware.GetSessionStore(c)
	if store == nil {
		return
	}
	ctx := c.Request().Context()
	if _, err := store.Refresh(ctx); err != nil {
		logger.WarnCtx(ctx, "refreshing session after profile update", zap.Error(err))
	}
}

// readUpload reads at most one byte past the rule's limit so oversized
// files are rejected without buffering them whole.
func readUpload(c echo.Context, rule validation.UploadRule) (models.Upload, error) {
	header, err := c.FormFile(rule.Field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return models.Upload{}, validation.FieldError(rule.Field, "is required")
		}
		return models.Upload{}, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	f, err := header.Open()
	if err != nil {
		return models.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if rule.MaxBytes > 0 {
		r = io.LimitReader(f, rule.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	return rule.Check(header.Filename, data)
}
