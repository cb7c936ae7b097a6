package validation

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octabyte/bm-talentportal/models"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *Error, got %v", err)
	return verr.Fields
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(models.Credentials{Email: "ada@example.com", Password: "correct horse"}))
}

func TestStructRequiredUsesJSONNames(t *testing.T) {
	got := fields(t, Struct(models.Credentials{}))

	assert.Equal(t, map[string]string{
		"email":    "is required",
		"password": "is required",
	}, got)
}

func TestStructMessages(t *testing.T) {
	got := fields(t, Struct(models.Registration{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
		Role:     "admin",
	}))

	assert.Equal(t, "must be at least 2 characters", got["name"])
	assert.Equal(t, "must be a valid email address", got["email"])
	assert.Equal(t, "must be at least 8 characters", got["password"])
	assert.Equal(t, "must be one of: talent, recruiter, company", got["role"])
}

func TestStructNestedPaths(t *testing.T) {
	got := fields(t, Struct(models.Links{Links: []models.Link{
		{Label: "site", URL: "https://example.com"},
		{Label: "bad", URL: "nope"},
	}}))

	assert.Equal(t, map[string]string{"links[1].url": "must be a valid URL"}, got)
}

func TestStructCrossField(t *testing.T) {
	got := fields(t, Struct(models.JobPosting{
		Title:          "Go developer",
		Description:    "Build and run the portal gateway services.",
		Location:       "Remote",
		EmploymentType: "full_time",
		SalaryMin:      5000,
		SalaryMax:      100,
	}))

	assert.Equal(t, map[string]string{"salary_max": "must not be less than salary_min"}, got)
}

func TestStructCollections(t *testing.T) {
	got := fields(t, Struct(models.Skills{Skills: []string{}}))
	assert.Equal(t, "must have at least 1 items", got["skills"])
}

func TestStructDatetime(t *testing.T) {
	got := fields(t, Struct(models.Experience{Title: "Dev", Company: "Acme", StartDate: "2024-13-01"}))
	assert.Equal(t, "must be a date formatted 2006-01", got["start_date"])
}

func TestErrorString(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "is required", "a": "is invalid"}}
	assert.Equal(t, "validation failed: a is invalid; b is required", err.Error())
}

var (
	pngData  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegData = append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 32)...)
	pdfData  = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

func TestPictureRule(t *testing.T) {
	rule := PictureRule(1 << 20)

	up, err := rule.Check("avatar.png", pngData)
	require.NoError(t, err)
	assert.Equal(t, "picture", up.Field)
	assert.Equal(t, "avatar.png", up.FileName)
	assert.Equal(t, "image/png", up.ContentType)

	up, err = rule.Check(`C:\Users\ada\me.jpg`, jpegData)
	require.NoError(t, err)
	assert.Equal(t, "me.jpg", up.FileName)
	assert.Equal(t, "image/jpeg", up.ContentType)

	_, err = rule.Check("cv.pdf", pdfData)
	assert.Contains(t, fields(t, err)["picture"], "unsupported type application/pdf")
}

func TestResumeRule(t *testing.T) {
	rule := ResumeRule(1 << 20)

	up, err := rule.Check("cv.pdf", pdfData)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", up.ContentType)

	_, err = rule.Check("cv.pdf", []byte("just some plain text pretending to be a resume"))
	assert.Contains(t, fields(t, err)["resume"], "unsupported type text/plain")
}

func TestUploadLimits(t *testing.T) {
	rule := PictureRule(1 << 10)

	_, err := rule.Check("empty.png", nil)
	assert.Equal(t, "is required", fields(t, err)["picture"])

	big := append(append([]byte{}, pngData...), bytes.Repeat([]byte{0}, 2<<10)...)
	_, err = rule.Check("big.png", big)
	assert.Equal(t, "must be at most 1 KB", fields(t, err)["picture"])
}

func TestUploadDefaultName(t *testing.T) {
	up, err := PictureRule(0).Check("", pngData)
	require.NoError(t, err)
	assert.Equal(t, "picture.png", up.FileName)
}
