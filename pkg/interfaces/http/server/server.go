package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/interfaces/http/handlers"
	"github.com/vsinha/sourcing/pkg/interfaces/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// Options configures the API server
type Options struct {
	Address        string
	MaxUploadBytes int64
	Defaults       planning.Params
}

// Server is the plan API
type Server struct {
	echo    *echo.Echo
	address string
	logger  ectologger.Logger
}

// New builds the API server around a plan runner
func New(opts Options, runner handlers.PlanRunner, logger ectologger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Logger(logger))

	e.GET("/healthz", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	plans := handlers.NewPlanHandler(runner, opts.Defaults, opts.MaxUploadBytes, logger)
	plans.Register(e.Group("/v1/plans"))

	return &Server{echo: e, address: opts.Address, logger: logger}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.address).Info("Starting API server")
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Stopping API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop api server: %w", err)
	}
	return nil
}
