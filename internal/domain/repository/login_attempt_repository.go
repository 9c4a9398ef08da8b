// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"lingo/internal/domain/entity"

	"github.com/google/uuid"
)

// LoginAttemptRepository is the append-only audit log of authentication
// attempts. Rows are written once and only ever read back.
type LoginAttemptRepository interface {
	// Create appends one attempt record.
	Create(ctx context.Context, attempt *entity.LoginAttempt) error

	// CountRecentFailures counts failed attempts from an IP address within
	// the trailing window. The count feeds the rate limiter; it does not need
	// to be linearizable with concurrent writes.
	CountRecentFailures(ctx context.Context, ipAddress string, window time.Duration) (int, error)

	// FindByUserID returns the most recent attempts targeting a user, newest
	// first, for the login history view.
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoginAttempt, error)
}
