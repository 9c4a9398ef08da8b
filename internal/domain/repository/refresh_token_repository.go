// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"lingo/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrRefreshTokenNotFound is returned when no active refresh token matches a hash.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository is the durable ledger of issued refresh tokens.
// Callers always pass SHA-256 hashes of the bearer secret; the raw secret
// never reaches this layer.
type RefreshTokenRepository interface {
	// Create persists a new refresh token row, representing a user session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindActiveByHash retrieves the token row for a hash, matching only rows
	// that are neither revoked nor expired. Anything else is
	// ErrRefreshTokenNotFound: a revoked token and an unknown token are
	// indistinguishable to callers.
	FindActiveByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// RevokeByHash marks the matching token as revoked. Revoking an
	// already-revoked or nonexistent token is not an error.
	RevokeByHash(ctx context.Context, tokenHash string) error

	// RevokeAllByUserID revokes every active token of a user ("logout from
	// all devices").
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired physically removes rows that are expired or revoked and
	// returns how many were deleted. It only ever touches logically dead
	// rows, so it is safe to run concurrently with issuance and lookup.
	DeleteExpired(ctx context.Context) (int64, error)
}
