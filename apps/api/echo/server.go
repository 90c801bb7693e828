package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/channel"
	"github.com/forgelabs/anvil/core/curriculum"
	"github.com/forgelabs/anvil/core/dashboard"
	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/resource"
	"github.com/forgelabs/anvil/core/scoring"
	"github.com/forgelabs/anvil/core/user"
	uploadsvc "github.com/forgelabs/anvil/services/uploads"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		UserSvc       user.Service
		ProblemSvc    problem.Service
		ResourceSvc   resource.Service
		ChannelSvc    channel.Service
		NotifSvc      notification.Service
		CurriculumSvc curriculum.Service
		DashboardSvc  dashboard.Service
		ScoringSvc    scoring.Service
		Uploader      uploadsvc.Uploader
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf
	initJWTAuth(conf)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.deps.UserSvc)
	registerProblemAPI(v1, jwt, s.deps.ProblemSvc)
	registerResourceAPI(v1, jwt, s.deps.ResourceSvc)
	registerChannelAPI(v1, jwt, s.deps.ChannelSvc, s.deps.UserSvc)
	registerNotificationAPI(v1, jwt, s.deps.NotifSvc, s.deps.UserSvc)
	registerCurriculumAPI(v1, jwt, s.deps.CurriculumSvc)
	registerDashboardAPI(v1, jwt, s.deps.DashboardSvc)
	registerScoringAPI(v1, jwt, s.deps.ScoringSvc)
	registerUploadsAPI(v1, jwt, s.deps.Uploader, s.deps.Logger)
}

// signalShutdown lets the error handler request a graceful stop on
// unrecoverable errors.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) Start() {
	s.errCh <- s.app.Start(s.deps.Conf.Server.Host)
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Anvil API!")
}
