package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/dashboard"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger          core.Logger
		UserSvc         *user.Service
		CatalogSvc      *catalog.Service
		StudentSvc      *student.Service
		RegistrationSvc *registration.Service
		StaffSvc        *staff.Service
		FeeSvc          *fee.Service
		AttendanceSvc   *attendance.Service
		DashboardSvc    *dashboard.Service

		// SignalShutdown is called when an unrecoverable error is caught.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerCatalogAPI(v1, jwt, s.opts.CatalogSvc)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc)
	registerRegistrationAPI(v1, jwt, s.opts.RegistrationSvc, s.opts.UserSvc)
	registerStaffAPI(v1, jwt, s.opts.StaffSvc, s.opts.UserSvc)
	registerFeeAPI(v1, jwt, s.opts.FeeSvc, s.opts.UserSvc)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc, s.opts.UserSvc)
	registerDashboardAPI(v1, jwt, s.opts.DashboardSvc)
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
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
