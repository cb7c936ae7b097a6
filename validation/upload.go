package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/octabyte/bm-talentportal/models"
)

// UploadRule bounds what a multipart field may carry. Content is sniffed,
// the client supplied type and extension are ignored.
type UploadRule struct {
	Field    string
	MaxBytes int64
	Allowed  []string
}

func ResumeRule(maxBytes int64) UploadRule {
	return UploadRule{
		Field:    "resume",
		MaxBytes: maxBytes,
		Allowed: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	}
}

func PictureRule(maxBytes int64) UploadRule {
	return UploadRule{
		Field:    "picture",
		MaxBytes: maxBytes,
		Allowed:  []string{"image/png", "image/jpeg", "image/webp"},
	}
}

// Check validates data against the rule and returns the upload to forward.
func (r UploadRule) Check(fileName string, data []byte) (models.Upload, error) {
	if len(data) == 0 {
		return models.Upload{}, FieldError(r.Field, "is required")
	}
	if r.MaxBytes > 0 && int64(len(data)) > r.MaxBytes {
		return models.Upload{}, FieldError(r.Field, fmt.Sprintf("must be at most %s", humanBytes(r.MaxBytes)))
	}

	mtype := mimetype.Detect(data)
	if !r.allows(mtype) {
		return models.Upload{}, FieldError(r.Field, "has unsupported type "+mtype.String())
	}

	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = r.Field + mtype.Extension()
	}

	return models.Upload{
		Field:       r.Field,
		FileName:    name,
		ContentType: baseType(mtype.String()),
		Data:        data,
	}, nil
}

func (r UploadRule) allows(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, allowed := range r.Allowed {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

func baseType(s string) string {
	t, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(t)
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
