package handlers

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/octabyte/bm-talentportal/backend"
	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/tracking"
)

// Backend is the marketplace API as used by the views.
type Backend interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Register(ctx context.Context, reg models.Registration) (string, error)

	GetProfileSection(ctx context.Context, token string, role enums.Role, section backend.ProfileSection) (json.RawMessage, error)
	UpdateBio(ctx context.Context, token string, role enums.Role, bio models.Bio) (json.RawMessage, error)
	AddExperience(ctx context.Context, token string, role enums.Role, exp models.Experience) (json.RawMessage, error)
	DeleteExperience(ctx context.Context, token string, role enums.Role, id string) error
	UpdateSkills(ctx context.Context, token string, role enums.Role, skills models.Skills) (json.RawMessage, error)
	UpdateLinks(ctx context.Context, token string, role enums.Role, links models.Links) (json.RawMessage, error)
	UploadResume(ctx context.Context, token string, role enums.Role, file models.Upload) (json.RawMessage, error)
	UploadPicture(ctx context.Context, token string, role enums.Role, file models.Upload) (json.RawMessage, error)

	ListJobs(ctx context.Context, token string, q models.JobQuery) (json.RawMessage, error)
	GetJob(ctx context.Context, token, id string) (json.RawMessage, error)
	ApplyToJob(ctx context.Context, token, id string, app models.JobApplication) (json.RawMessage, error)
	ListCompanyJobs(ctx context.Context, token string) (json.RawMessage, error)
	CreateCompanyJob(ctx context.Context, token string, job models.JobPosting) (json.RawMessage, error)
	DeleteCompanyJob(ctx context.Context, token, id string) error
	ListApplications(ctx context.Context, token, userID string) (json.RawMessage, error)

	ListTalents(ctx context.Context, token, search string) (json.RawMessage, error)
	GetTalent(ctx context.Context, token, id string) (json.RawMessage, error)
	ListProposals(ctx context.Context, token, userID string) (json.RawMessage, error)
	CreateProposal(ctx context.Context, token string, p models.Proposal) (json.RawMessage, error)

	RequestConnection(ctx context.Context, token string, req models.ConnectionRequest) (json.RawMessage, error)
	AcceptConnection(ctx context.Context, token string, req models.ConnectionAccept) (json.RawMessage, error)
	ConnectionStatus(ctx context.Context, token, userID string) (json.RawMessage, error)
	MutualConnections(ctx context.Context, token, userID string) (json.RawMessage, error)
	ListConnections(ctx context.Context, token string) (json.RawMessage, error)
	Follow(ctx context.Context, token, userID string) (json.RawMessage, error)

	BillingHistory(ctx context.Context, token, tz string) (*models.BillingHistory, error)
}

type Config struct {
	LoginPath       string
	HomePath        string
	SchedulingURL   string
	RedirectDelay   time.Duration
	MaxResumeBytes  int64
	MaxPictureBytes int64
}

type Handler struct {
	backend Backend
	tracker tracking.Tracker
	cfg     Config
}

func New(backend Backend, tracker tracking.Tracker, cfg Config) *Handler {
	return &Handler{backend: backend, tracker: tracker, cfg: cfg}
}
