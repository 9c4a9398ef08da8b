package main

import (
	"context"
	"log/slog"
	"os"

	"lingo/config"
	"lingo/internal/delivery"
	"lingo/internal/delivery/http"
	"lingo/internal/delivery/http/middleware"
	"lingo/internal/delivery/http/router/handler"
	"lingo/internal/infra/auth"
	logs "lingo/internal/infra/log"
	"lingo/internal/infra/oauth/github"
	"lingo/internal/infra/oauth/google"
	"lingo/internal/infra/persistence/postgres"
	"lingo/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

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
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewIdentityRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewLoginAttemptRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewScryptHasher,
			auth.NewJWTService,
			fx.Annotate(
				google.NewProvider,
				fx.ResultTags(`group:"oauth_providers"`),
			),
			fx.Annotate(
				github.NewProvider,
				fx.ResultTags(`group:"oauth_providers"`),
			),
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewLoginRateLimiter,
			impl.NewTokenJanitor,
		),
		fx.Invoke(func(*impl.TokenJanitor) {}),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
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
}
