// Package google implements the OAuth authorization-code flow against Google.
package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"lingo/config"
	"lingo/internal/domain/entity"
	"lingo/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// userinfoResponse mirrors the fields we read from Google's userinfo endpoint.
type userinfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type provider struct {
	oauth  *oauth2.Config
	logger *slog.Logger
}

// NewProvider creates the Google OAuth provider from configuration.
func NewProvider(cfg *config.Config, logger *slog.Logger) (service.OAuthProvider, error) {
	if cfg.GoogleOAuth == nil || cfg.GoogleOAuth.ClientID == "" || cfg.GoogleOAuth.ClientSecret == "" {
		return nil, errors.New("google oauth client credentials must be provided")
	}

	return &provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleOAuth.ClientID,
			ClientSecret: cfg.GoogleOAuth.ClientSecret,
			RedirectURL:  cfg.GoogleOAuth.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     googleendpoint.Endpoint,
		},
		logger: logger,
	}, nil
}

// Provider returns the provider type this implementation serves.
func (p *provider) Provider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

// AuthCodeURL builds the consent-page URL the client is redirected to.
func (p *provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and fetches the user's profile.
func (p *provider) Exchange(ctx context.Context, code string) (*service.OAuthProfile, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	resp, err := p.oauth.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch userinfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "failed to decode userinfo response")
	}

	if info.ID == "" {
		return nil, errors.New("userinfo response missing subject id")
	}

	// An unverified address must not be matched against existing accounts.
	email := info.Email
	if !info.VerifiedEmail {
		email = ""
	}

	p.logger.Debug("Fetched Google profile", slog.String("providerUserID", info.ID))

	return &service.OAuthProfile{
		ID:       info.ID,
		Email:    email,
		Name:     info.Name,
		Provider: entity.ProviderTypeGoogle,
	}, nil
}
