// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"lingo/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a password login. IPAddress and
// UserAgent feed the attempt audit log and the rate limiter.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// OAuthCallbackInput carries the authorization code handed back by the
// provider, plus the same client metadata a password login records.
type OAuthCallbackInput struct {
	Provider  entity.ProviderType
	Code      string
	IPAddress string
	UserAgent string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the token pair issued for a new session.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns the access token minted from a valid refresh token.
type RefreshOutput struct {
	AccessToken string
}

// AuthUsecase defines the interface for authentication and session
// operations. This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// Register creates a user with a local password identity.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login verifies a password credential and opens a session.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// OAuthAuthorizeURL builds the provider consent URL for the given
	// anti-forgery state.
	OAuthAuthorizeURL(provider entity.ProviderType, state string) (string, error)

	// OAuthCallback completes the authorization-code flow, creating the user
	// and identity on first sign-in.
	OAuthCallback(ctx context.Context, input OAuthCallbackInput) (*LoginOutput, error)

	// Refresh mints a new access token from a live refresh token.
	Refresh(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// Logout revokes the session behind a refresh token. Unknown tokens are
	// accepted silently.
	Logout(ctx context.Context, refreshToken string) error

	// RevokeAllSessions revokes every active session of a user.
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error

	// LoginHistory returns a user's most recent login attempts, newest first.
	LoginHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoginAttempt, error)

	// GetUser loads a user's profile.
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
