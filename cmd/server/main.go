package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/browser"
	"go.uber.org/fx"

	"sharegarden/config"
	"sharegarden/internal/delivery"
	"sharegarden/internal/delivery/http"
	"sharegarden/internal/delivery/http/middleware"
	"sharegarden/internal/delivery/http/router/handler"
	"sharegarden/internal/infra/auth"
	logs "sharegarden/internal/infra/log"
	"sharegarden/internal/infra/persistence/sqlite"
	"sharegarden/internal/infra/qrterm"
	"sharegarden/internal/infra/upload"
	"sharegarden/internal/lifecycle"
	"sharegarden/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Config     *config.Config
	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			lifecycle.NewMonitor,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		sqlite.New,
		upload.New,
		lifecycle.NewSupervisor,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			sqlite.NewUserRepository,
			sqlite.NewItemTypeRepository,
			sqlite.NewItemRepository,
			sqlite.NewTransactionManager,
			sqlite.NewMaintainer,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewItemService,
			impl.NewItemTypeService,
			impl.NewAdminService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewItemHandler,
			handler.NewItemTypeHandler,
			handler.NewAdminHandler,
			handler.NewUploadHandler,
			handler.NewSystemHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}

	announce(params.Config, params.Logger)
}

// announce helps the person who launched the binary reach it: optionally
// opens the browser on this machine and prints a QR code other devices on
// the LAN can scan.
func announce(cfg *config.Config, logger *slog.Logger) {
	if cfg.Frontend == nil {
		return
	}

	localURL := "http://localhost:" + strconv.Itoa(cfg.HTTP.Port)

	if cfg.Frontend.OpenBrowser {
		if err := browser.OpenURL(localURL); err != nil {
			logger.Warn("open browser", slog.Any("error", err))
		}
	}

	if cfg.Frontend.PrintQR {
		if err := qrterm.Print(os.Stdout, cfg.HTTP.Port); err != nil {
			logger.Warn("print access qr code", slog.Any("error", err))
		}
	}
}
