package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim. A token verified by the wrong
// method is rejected even when its signature would otherwise check out.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID uuid.UUID
	Type   string
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating JWTs.
// Access and refresh tokens are signed with independent secrets, so the
// compromise of one does not compromise the other.
type TokenService interface {
	// GenerateAccessToken creates a short-lived, stateless access token.
	GenerateAccessToken(userID uuid.UUID) (string, error)

	// GenerateRefreshToken creates a long-lived refresh token. Persisting its
	// hash in the ledger is the caller's responsibility.
	GenerateRefreshToken(userID uuid.UUID) (string, error)

	// ValidateAccessToken checks signature, expiry and token type against the
	// access secret.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks signature, expiry and token type against
	// the refresh secret. It does not consult the ledger.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the one-way digest under which a raw token is stored
	// in the ledger.
	HashToken(tokenString string) string

	// RefreshTokenTTL returns the configured lifetime of refresh tokens.
	RefreshTokenTTL() time.Duration
}
