package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
)

type ProfileSection string

const (
	SectionBio        ProfileSection = "bio"
	SectionExperience ProfileSection = "experience"
	SectionSkills     ProfileSection = "skills"
	SectionLinks      ProfileSection = "links"
)

func (s ProfileSection) Valid() bool {
	switch s {
	case SectionBio, SectionExperience, SectionSkills, SectionLinks:
		return true
	}
	return false
}

func profilePath(role enums.Role, rest string) string {
	return fmt.Sprintf("/%s/profile/%s", role, rest)
}

func (c *Client) GetProfileSection(ctx context.Context, token string, role enums.Role, section ProfileSection) (json.RawMessage, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("get profile section %q: %w", section, ErrNotFound)
	}
	return c.get(ctx, "profile."+string(section), profilePath(role, string(section)), token, nil)
}

func (c *Client) UpdateBio(ctx context.Context, token string, role enums.Role, bio models.Bio) (json.RawMessage, error) {
	return c.raw(ctx, "profile.bio.update", http.MethodPatch, profilePath(role, "bio"), token, withBody(bio))
}

func (c *Client) AddExperience(ctx context.Context, token string, role enums.Role, exp models.Experience) (json.RawMessage, error) {
	return c.raw(ctx, "profile.experience.add", http.MethodPost, profilePath(role, "experience"), token, withBody(exp))
}

func (c *Client) DeleteExperience(ctx context.Context, token string, role enums.Role, id string) error {
	_, err := c.call(ctx, "profile.experience.delete", http.MethodDelete, profilePath(role, "experience/{id}"), token,
		withPathParams(map[string]string{"id": id}))
	return err
}

func (c *Client) UpdateSkills(ctx context.Context, token string, role enums.Role, skills models.Skills) (json.RawMessage, error) {
	return c.raw(ctx, "profile.skills.update", http.MethodPut, profilePath(role, "skills"), token, withBody(skills))
}

func (c *Client) UpdateLinks(ctx context.Context, token string, role enums.Role, links models.Links) (json.RawMessage, error) {
	return c.raw(ctx, "profile.links.update", http.MethodPut, profilePath(role, "links"), token, withBody(links))
}

// UploadResume sends the file as the multipart "resume" field.
func (c *Client) UploadResume(ctx context.Context, token string, role enums.Role, file models.Upload) (json.RawMessage, error) {
	return c.raw(ctx, "profile.resume.upload", http.MethodPost, profilePath(role, "resume"), token, withUpload("resume", file))
}

// UploadPicture sends the file as the multipart "picture" field.
func (c *Client) UploadPicture(ctx context.Context, token string, role enums.Role, file models.Upload) (json.RawMessage, error) {
	return c.raw(ctx, "profile.picture.upload", http.MethodPost, profilePath(role, "picture"), token, withUpload("picture", file))
}

func withUpload(field string, file models.Upload) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetMultipartField(field, file.FileName, file.ContentType, bytes.NewReader(file.Data))
	}
}
