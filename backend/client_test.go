package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
)

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	mux     *http.ServeMux
	client  *Client
	lastReq atomic.Pointer[http.Request]
}

func (s *ClientTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq.Store(r.Clone(context.Background()))
		s.mux.ServeHTTP(w, r)
	}))
	s.client = New(Options{BaseURL: s.server.URL + "/", ServiceName: "portal-test", Timeout: 2 * time.Second})
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) respond(pattern string, status int, body string) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (s *ClientTestSuite) TestBaseURLIsTrimmed() {
	s.Equal(s.server.URL, s.client.BaseURL())
}

func (s *ClientTestSuite) TestLoginReadsToken() {
	s.respond("/auth/login", http.StatusOK, `{"data":{"token":"tok-123"}}`)

	token, err := s.client.Login(context.Background(), models.Credentials{Email: "a@b.co", Password: "secret123"})

	s.Require().NoError(err)
	s.Equal("tok-123", token)
	s.Equal(http.MethodPost, s.lastReq.Load().Method)
}

func (s *ClientTestSuite) TestLoginWithoutTokenFails() {
	s.respond("/auth/login", http.StatusOK, `{"ok":true}`)

	_, err := s.client.Login(context.Background(), models.Credentials{})

	s.ErrorIs(err, ErrBackend)
}

func (s *ClientTestSuite) TestLoginReadsAuthorizationHeader() {
	s.mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer hdr-456")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	token, err := s.client.Login(context.Background(), models.Credentials{Email: "a@b.co", Password: "secret123"})

	s.Require().NoError(err)
	s.Equal("hdr-456", token)
}

func (s *ClientTestSuite) TestRegisterRejected() {
	s.respond("/auth/register", http.StatusConflict, `{"message":"email taken"}`)

	_, err := s.client.Register(context.Background(), models.Registration{})

	s.ErrorIs(err, ErrConflict)
	s.Equal(http.StatusConflict, StatusCode(err))
}

func (s *ClientTestSuite) TestWhoAmISendsBearer() {
	s.respond("/auth/me", http.StatusOK, `{"user":{"_id":"u1","full_name":"Ada","email":"ada@example.com","role":"recruiter","profilePicture":"p.png"}}`)

	user, err := s.client.WhoAmI(context.Background(), "tok")

	s.Require().NoError(err)
	s.Equal("Bearer tok", s.lastReq.Load().Header.Get("Authorization"))
	s.Equal(&models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: enums.RoleRecruiter, ProfilePicture: "p.png"}, user)
}

func (s *ClientTestSuite) TestWhoAmIUnauthorized() {
	s.respond("/auth/me", http.StatusUnauthorized, ``)

	user, err := s.client.WhoAmI(context.Background(), "stale")

	s.Nil(user)
	s.ErrorIs(err, ErrUnauthorized)
}

func (s *ClientTestSuite) TestWhoAmIEmptyBody() {
	s.respond("/auth/me", http.StatusOK, `{}`)

	_, err := s.client.WhoAmI(context.Background(), "tok")

	s.ErrorIs(err, ErrBackend)
}

func (s *ClientTestSuite) TestApplyStatusClassification() {
	s.respond("/jobs/already/apply", http.StatusUnauthorized, `{}`)
	s.respond("/jobs/missing/apply", http.StatusNotFound, `{}`)
	s.respond("/jobs/ok/apply", http.StatusCreated, `{"id":"app-1"}`)

	_, err := s.client.ApplyToJob(context.Background(), "tok", "already", models.JobApplication{})
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.client.ApplyToJob(context.Background(), "tok", "missing", models.JobApplication{})
	s.ErrorIs(err, ErrNotFound)

	body, err := s.client.ApplyToJob(context.Background(), "tok", "ok", models.JobApplication{CoverLetter: "hi"})
	s.Require().NoError(err)
	s.JSONEq(`{"id":"app-1"}`, string(body))
}

func (s *ClientTestSuite) TestListJobsQuery() {
	s.respond("/jobs", http.StatusOK, `[]`)

	_, err := s.client.ListJobs(context.Background(), "tok", models.JobQuery{Search: "go", Page: 2})

	s.Require().NoError(err)
	q := s.lastReq.Load().URL.Query()
	s.Equal("go", q.Get("q"))
	s.Equal("2", q.Get("page"))
	s.False(q.Has("location"))
}

func (s *ClientTestSuite) TestProfilePathsAreRoleScoped() {
	s.respond("/company/profile/bio", http.StatusOK, `{"headline":"Acme"}`)

	body, err := s.client.GetProfileSection(context.Background(), "tok", enums.RoleCompany, SectionBio)

	s.Require().NoError(err)
	s.JSONEq(`{"headline":"Acme"}`, string(body))

	_, err = s.client.GetProfileSection(context.Background(), "tok", enums.RoleCompany, ProfileSection("secrets"))
	s.ErrorIs(err, ErrNotFound)
}

func (s *ClientTestSuite) TestUploadPictureIsMultipart() {
	var field, name string
	s.mux.HandleFunc("/talent/profile/picture", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("picture")
		if err == nil {
			defer f.Close()
			field, name = "picture", hdr.Filename
		}
		_, _ = io.WriteString(w, `{"profile_picture":"https://cdn/p.png"}`)
	})

	_, err := s.client.UploadPicture(context.Background(), "tok", enums.RoleTalent, models.Upload{
		FileName: "me.png", ContentType: "image/png", Data: []byte("\x89PNG"),
	})

	s.Require().NoError(err)
	s.Equal("picture", field)
	s.Equal("me.png", name)
}

func (s *ClientTestSuite) TestBillingHistoryTimezone() {
	s.respond("/billing/history", http.StatusOK, `{"payments":[
		{"id":"p1","amount":10,"currency":"EUR","status":"PAID","paid_at":"2024-01-01T23:30:00Z"},
		{"id":"p2","amount":5,"currency":"EUR","status":"FAILED","paid_at":"2024-01-02T10:00:00Z"}]}`)

	history, err := s.client.BillingHistory(context.Background(), "tok", "Europe/Paris")

	s.Require().NoError(err)
	s.Equal("Europe/Paris", history.TimeZone)
	s.Equal(10.0, history.TotalPaid)
	s.Equal("EUR", history.Currency)
	s.Require().Len(history.Payments, 2)
	s.Equal(2, history.Payments[0].PaidAt.Day())
	s.Equal("Europe/Paris", history.Payments[0].PaidAt.Location().String())
}

func (s *ClientTestSuite) TestBillingHistoryBareArrayUnknownZone() {
	s.respond("/billing/history", http.StatusOK, `[{"id":"p1","amount":3,"status":"PAID","paid_at":"2024-01-01T00:00:00Z"}]`)

	history, err := s.client.BillingHistory(context.Background(), "tok", "Mars/Olympus")

	s.Require().NoError(err)
	s.Equal("UTC", history.TimeZone)
	s.Len(history.Payments, 1)
}

func (s *ClientTestSuite) TestTrackClickIsAnonymous() {
	s.respond("/tracking/click", http.StatusNoContent, ``)

	err := s.client.TrackClick(context.Background(), models.ClickEvent{Email: "a@b.co", ClickedAt: time.Now()})

	s.Require().NoError(err)
	s.Equal(http.MethodPut, s.lastReq.Load().Method)
	s.Empty(s.lastReq.Load().Header.Get("Authorization"))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(Options{BaseURL: url, Timeout: time.Second})
	_, err := client.ListConnections(context.Background(), "tok")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Zero(t, StatusCode(err))
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(Options{BaseURL: srv.URL, RateLimit: 1, Burst: 1})
	_, err := client.ListTalents(ctx, "tok", "")

	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrBackend},
		{http.StatusBadRequest, ErrBackend},
	}
	for _, tt := range tests {
		err := &StatusError{Operation: "op", StatusCode: tt.status}
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}
