package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		Gate           *access.Gate
		AccessLogs     access.LogRepository
		UserSvc        user.Service
		ClassroomSvc   classroom.Service
		ObservationSvc observation.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// Shutdown is signaled when an unrecoverable error was caught and the
		// server should be stopped.
		Shutdown() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) Shutdown() <-chan struct{} {
	return s.shutdown
}

func (s *server) setup() {
	conf := s.opts.Conf
	appJWTConfig.SigningKey = []byte(conf.SecretKey)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(v1, conf, s.opts.Gate, s.opts.UserSvc)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerClassroomAPI(v1, jwt, s.opts.ClassroomSvc, s.opts.UserSvc)
	registerObservationAPI(v1, jwt, s.opts.ObservationSvc, s.opts.UserSvc)
	registerAccessLogAPI(v1, jwt, s.opts.AccessLogs)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to ObsHub API!")
}
