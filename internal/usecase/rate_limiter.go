// Package usecase contains the application-specific business rules.
package usecase

import "context"

// LoginRateLimiter throttles password logins per source IP. Allow reports
// whether another attempt may proceed; when the backing store cannot answer,
// implementations fail open and report true.
type LoginRateLimiter interface {
	Allow(ctx context.Context, ipAddress string) bool
}
