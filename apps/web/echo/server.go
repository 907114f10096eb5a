package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/contact"
	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/files"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		PaperSvc   *paper.Service
		AuditSvc   *audit.Service
		ContactSvc *contact.Service
		MemberSvc  *member.Service
		Files      *files.Store
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		auth       *sessionAuth
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) (Server, error) {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		auth:       newSessionAuth(deps.Conf),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)

	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) setup() error {
	conf := s.deps.Conf

	rdr, err := newRenderer()
	if err != nil {
		return err
	}
	s.app.Renderer = rdr

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.BodyLimit(conf.Upload.MaxSize))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, func() {
		s.shutdownCh <- syscall.SIGTERM
	})
	s.app.Debug = conf.Debug

	registerPublicHandlers(s.app, s.auth, s.deps)

	session := []echo.MiddlewareFunc{
		s.auth.Middleware(),
		accountLoader(s.deps.UserSvc, s.auth),
	}
	registerFacultyHandlers(s.app, s.auth, s.deps, session...)

	return nil
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
