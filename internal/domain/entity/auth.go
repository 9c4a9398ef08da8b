// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FederatedIdentity represents a single method of logging in (a credential).
// A user's email/password is one record ("local" provider), while a linked
// Google or GitHub account is another. A User holds at most one identity per
// provider, and (provider, provider_user_id) is unique across users for
// federated providers.
type FederatedIdentity struct {
	ID             uuid.UUID    // The unique ID for this specific identity record itself.
	UserID         uuid.UUID    // Links this identity to the User it belongs to.
	Provider       ProviderType // The sign-in provider: "local", "google" or "github".
	ProviderUserID string       // The user's unique ID at the external provider. Empty for the local provider.
	PasswordHash   string       // The encoded scrypt hash, only set when the Provider is "local".
	CreatedAt      time.Time    // Timestamp of when this identity was linked to the user account.
}

// RefreshToken represents a long-lived, revocable user session. It is used to
// obtain a new access token after the old one expires, without requiring
// credentials. Only a SHA-256 hash of the bearer secret is ever stored, so a
// database compromise alone cannot forge tokens.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hex digest of the raw refresh token.
	ExpiresAt time.Time // The exact time when this refresh token becomes invalid.
	Revoked   bool      // Set on logout or explicit revocation; revoked rows are swept later.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}
