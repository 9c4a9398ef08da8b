// Package github implements the OAuth authorization-code flow against GitHub.
package github

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"lingo/config"
	"lingo/internal/domain/entity"
	"lingo/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

const (
	userURL   = "https://api.github.com/user"
	emailsURL = "https://api.github.com/user/emails"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

type emailEntry struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type provider struct {
	oauth  *oauth2.Config
	logger *slog.Logger
}

// NewProvider creates the GitHub OAuth provider from configuration.
func NewProvider(cfg *config.Config, logger *slog.Logger) (service.OAuthProvider, error) {
	if cfg.GitHubOAuth == nil || cfg.GitHubOAuth.ClientID == "" || cfg.GitHubOAuth.ClientSecret == "" {
		return nil, errors.New("github oauth client credentials must be provided")
	}

	return &provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHubOAuth.ClientID,
			ClientSecret: cfg.GitHubOAuth.ClientSecret,
			RedirectURL:  cfg.GitHubOAuth.RedirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     githubendpoint.Endpoint,
		},
		logger: logger,
	}, nil
}

// Provider returns the provider type this implementation serves.
func (p *provider) Provider() entity.ProviderType {
	return entity.ProviderTypeGitHub
}

// AuthCodeURL builds the consent-page URL the client is redirected to.
func (p *provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and fetches the user's profile.
// GitHub may omit the email on the profile when the user hides it, so a second
// call to the emails endpoint picks the primary verified address.
func (p *provider) Exchange(ctx context.Context, code string) (*service.OAuthProfile, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	client := p.oauth.Client(ctx, token)

	var user userResponse
	if err := getJSON(client, userURL, &user); err != nil {
		return nil, errors.Wrap(err, "failed to fetch github profile")
	}
	if user.ID == 0 {
		return nil, errors.New("github profile missing user id")
	}

	// The /user email field is the public profile address and may be
	// unverified or hidden. Only a verified address from the emails endpoint
	// is trusted; without one the profile carries no email.
	email, err := p.fetchPrimaryEmail(client)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	p.logger.Debug("Fetched GitHub profile", slog.Int64("providerUserID", user.ID))

	return &service.OAuthProfile{
		ID:       strconv.FormatInt(user.ID, 10),
		Email:    email,
		Name:     name,
		Provider: entity.ProviderTypeGitHub,
	}, nil
}

func (p *provider) fetchPrimaryEmail(client *http.Client) (string, error) {
	var emails []emailEntry
	if err := getJSON(client, emailsURL, &emails); err != nil {
		return "", errors.Wrap(err, "failed to fetch github emails")
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}

	// No verified address. The account still signs in, just without an email.
	return "", nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("request to %s returned status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
