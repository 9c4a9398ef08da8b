package service

import (
	"context"

	"lingo/internal/domain/entity"
)

// OAuthProfile represents the user information fetched from an OAuth provider
// after a completed authorization-code exchange.
type OAuthProfile struct {
	ID       string              // Provider-specific user ID (e.g., Google's 'sub' claim, GitHub's numeric id)
	Email    string              // Verified email address; empty when the provider has none to share
	Name     string              // User's display name
	Provider entity.ProviderType // Which provider the profile came from
}

// OAuthProvider defines the authorization-code flow against one external
// identity provider. Implementations exist per provider; the set is closed
// (google, github) and the orchestrator dispatches on the provider type.
type OAuthProvider interface {
	// Provider returns the provider type this implementation serves.
	Provider() entity.ProviderType

	// AuthCodeURL builds the consent-page URL the client is redirected to.
	// The state parameter is round-tripped for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades the callback's authorization code for the provider's
	// tokens and fetches the user's profile with them.
	Exchange(ctx context.Context, code string) (*OAuthProfile, error)
}
