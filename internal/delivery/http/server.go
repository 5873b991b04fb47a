// Package http hosts the echo server that fronts the whole service: the
// JSON API, the bundled front-end assets and the stored uploads.
package http

import (
	"context"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"

	"sharegarden/config"
	"sharegarden/internal/delivery"
	"sharegarden/internal/delivery/http/middleware"
	"sharegarden/internal/delivery/http/router"
	"sharegarden/internal/delivery/http/validator"
	"sharegarden/internal/domain/lifecycle"
)

// HTTPParams holds the dependencies for building the HTTP server.
type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config          *config.Config
	Logger          *slog.Logger
	RouterParams    router.RouterParams
	ErrorMiddleware *middleware.ErrorMiddleware
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// NewServer builds the echo server with the shared middleware chain and
// every registered route.
func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Use(slogecho.New(params.Logger))
	echoServer.Validator = validator.New()
	echoServer.HTTPErrorHandler = params.ErrorMiddleware.HandleHTTPError
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(echomiddleware.CORS())

	router.NewRouter(params.RouterParams).RegisterRoutes(echoServer)

	// The single-binary deployment also serves the front-end and the
	// uploaded images.
	if dir := params.Config.Frontend.AssetsRoot; dirExists(dir) {
		echoServer.Static("/", dir)
	}
	echoServer.Static("/uploads", params.Config.Uploads.Dir)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

func (s *httpServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.Wrap(err, "failed to serve http")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)

	return err == nil && info.IsDir()
}
