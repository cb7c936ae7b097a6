package echo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/guard"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/handlers"
	"github.com/octabyte/bm-talentportal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-talentportal/models"
	portalotel "github.com/octabyte/bm-talentportal/otel/echo"
)

var ErrServerClosed = http.ErrServerClosed

type ServerConfig struct {
	Addr            string
	ServiceName     string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       string
	LoginPath       string
	Session         middleware.SessionConfig
}

type Server struct {
	cfg  ServerConfig
	echo *echo.Echo
}

// NewServer builds the portal router. Every request passes through tracing,
// logging, metrics and session resolution before the route guard runs.
func NewServer(cfg ServerConfig, sessions middleware.SessionSource, h *handlers.Handler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = errorHandler
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	skipHealth := func(c echo.Context) bool { return c.Path() == "/healthz" }

	e.Use(echomw.Recover())
	e.Use(portalotel.MiddlewareWithConfig(cfg.ServiceName, skipHealth))
	e.Use(middleware.RequestLogger(skipHealth))
	e.Use(middleware.Metrics())
	if cfg.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.BodyLimit))
	}

	e.GET("/healthz", h.Health)
	e.GET("/r/schedule", h.Schedule)

	app := e.Group("",
		middleware.SetSessionInContext(cfg.Session, sessions),
		middleware.RouteGuard(guard.New(cfg.LoginPath)),
		middleware.SetTokenInContext(),
	)

	app.GET("/login", h.AuthPage)
	app.POST("/login", h.Login)
	app.GET("/register", h.AuthPage)
	app.POST("/register", h.Register)
	app.GET("/logout", h.Logout)
	app.POST("/logout", h.Logout)

	api := app.Group("/api")
	api.GET("/me", h.Me)
	api.GET("/navigation", h.Navigation)

	admin := app.Group("/admin")
	admin.GET("/dashboard", h.Dashboard)

	menu := admin.Group("", middleware.RequireMenuEntry())

	menu.GET("/jobs", h.ListJobs)
	menu.GET("/jobs/:id", h.GetJob)
	menu.POST("/jobs/:id/apply", h.ApplyToJob)
	menu.GET("/applications", h.ListApplications)

	menu.GET("/connections", h.ListConnections)
	menu.POST("/connections", h.RequestConnection)
	menu.POST("/connections/accept", h.AcceptConnection)
	menu.GET("/connections/:userId/status", h.ConnectionStatus)
	menu.GET("/connections/:userId/mutual", h.MutualConnections)
	menu.POST("/connections/:userId/follow", h.Follow)

	menu.GET("/profile", h.Profile)
	menu.GET("/profile/:section", h.ProfileSection)
	menu.PATCH("/profile/bio", h.UpdateBio)
	menu.POST("/profile/experience", h.AddExperience)
	menu.DELETE("/profile/experience/:id", h.DeleteExperience)
	menu.PUT("/profile/skills", h.UpdateSkills)
	menu.PUT("/profile/links", h.UpdateLinks)
	menu.POST("/profile/resume", h.UploadResume)
	menu.POST("/profile/picture", h.UploadPicture)

	menu.GET("/talents", h.ListTalents)
	menu.GET("/talents/:id", h.GetTalent)
	menu.GET("/proposals", h.ListProposals)
	menu.POST("/proposals", h.CreateProposal)

	menu.GET("/company/jobs", h.ListCompanyJobs)
	menu.POST("/company/jobs", h.CreateCompanyJob)
	menu.DELETE("/company/jobs/:id", h.DeleteCompanyJob)
	menu.GET("/billing", h.BillingHistory)

	return &Server{cfg: cfg, echo: e}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then drains in-flight requests for at most
// ShutdownTimeout. It returns ErrServerClosed after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ErrServerClosed
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return ErrServerClosed
		}
		return err
	}
}

// errorHandler renders echo errors in the view envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, models.View{Status: models.ViewStatusError, Message: msg})
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return nil
}

func logLevel(level string) log.Lvl {
	switch level {
	case enums.LogLevelDebug:
		return log.DEBUG
	case enums.LogLevelWarn:
		return log.WARN
	case enums.LogLevelError, enums.LogLevelFatal, enums.LogLevelPanic, enums.LogLevelDPanic:
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
