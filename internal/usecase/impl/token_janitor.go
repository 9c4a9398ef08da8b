package impl

import (
	"context"
	"log/slog"
	"time"

	"lingo/config"
	"lingo/internal/domain/repository"

	"go.uber.org/fx"
)

// TokenJanitor periodically deletes refresh token rows that are expired or
// revoked. It runs one sweep immediately at startup, then once per interval.
type TokenJanitor struct {
	refreshTokenRepo repository.RefreshTokenRepository
	interval         time.Duration
	logger           *slog.Logger
	cancel           context.CancelFunc
	done             chan struct{}
}

// TokenJanitorParams holds dependencies for TokenJanitor, injected by Fx.
type TokenJanitorParams struct {
	fx.In
	fx.Lifecycle

	RefreshTokenRepo repository.RefreshTokenRepository
	Config           *config.Config
	Logger           *slog.Logger
}

// NewTokenJanitor is the constructor for TokenJanitor. It registers lifecycle
// hooks so the sweep loop starts and stops with the application.
func NewTokenJanitor(params TokenJanitorParams) *TokenJanitor {
	janitor := &TokenJanitor{
		refreshTokenRepo: params.RefreshTokenRepo,
		interval:         params.Config.Auth.SweepInterval,
		logger:           params.Logger,
		done:             make(chan struct{}),
	}

	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			runCtx, cancel := context.WithCancel(context.Background())
			janitor.cancel = cancel
			go janitor.run(runCtx)

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			janitor.cancel()
			select {
			case <-janitor.done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})

	return janitor
}

func (j *TokenJanitor) run(ctx context.Context) {
	defer close(j.done)

	j.Sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep deletes dead rows once and logs the outcome.
func (j *TokenJanitor) Sweep(ctx context.Context) {
	deleted, err := j.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("Refresh token sweep failed", slog.Any("error", err))

		return
	}

	if deleted > 0 {
		j.logger.Info("Swept dead refresh tokens", slog.Int64("deleted", deleted))
	}
}
