package impl

import (
	"context"
	"log/slog"
	"time"

	"lingo/config"
	"lingo/internal/domain/repository"
	"lingo/internal/usecase"

	"go.uber.org/fx"
)

// attemptRateLimiter throttles password logins by counting recent failures
// per source IP in the attempt log. When the count cannot be read the limiter
// fails open: an unreachable database should degrade throttling, not logins.
type attemptRateLimiter struct {
	attemptRepo repository.LoginAttemptRepository
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
}

// RateLimiterParams holds dependencies for attemptRateLimiter, injected by Fx.
type RateLimiterParams struct {
	fx.In

	AttemptRepo repository.LoginAttemptRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewLoginRateLimiter is the constructor for attemptRateLimiter.
func NewLoginRateLimiter(params RateLimiterParams) usecase.LoginRateLimiter {
	return &attemptRateLimiter{
		attemptRepo: params.AttemptRepo,
		maxAttempts: params.Config.Auth.RateLimitMaxAttempts,
		window:      params.Config.Auth.RateLimitWindow,
		logger:      params.Logger,
	}
}

// Allow reports whether another login attempt from the IP may proceed.
func (rl *attemptRateLimiter) Allow(ctx context.Context, ipAddress string) bool {
	count, err := rl.attemptRepo.CountRecentFailures(ctx, ipAddress, rl.window)
	if err != nil {
		rl.logger.Error("Rate limit check failed, allowing attempt", slog.String("ip", ipAddress), slog.Any("error", err))

		return true
	}

	return count < rl.maxAttempts
}
