// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"lingo/config"
	"lingo/internal/delivery/http/middleware"
	"lingo/internal/delivery/http/response"
	"lingo/internal/domain/entity"
	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	refreshCookieName    = "refresh_token"
	oauthStateCookieName = "oauth_state"
	oauthStateTTL        = 10 * time.Minute
	oauthErrorValue      = "authentication_failed"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		cfg:    cfg,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userView is the safe subset of a user returned to clients.
type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginAttemptView struct {
	Provider    string    `json:"provider"`
	IPAddress   string    `json:"ipAddress"`
	UserAgent   string    `json:"userAgent"`
	Successful  bool      `json:"successful"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func toUserView(user *entity.User) userView {
	return userView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserView(output.User), "User registered successfully")
}

// Login handles the password login request. The refresh token travels back
// only as an HttpOnly cookie; the JSON body carries the access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, output.RefreshToken)

	return response.Success(c, http.StatusOK, map[string]any{
		"accessToken": output.AccessToken,
		"user":        toUserView(output.User),
	}, "Login successful")
}

// Refresh mints a new access token from the refresh cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return errors.WithStack(domainerrors.ErrRefreshTokenInvalid)
	}

	output, err := h.uc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"accessToken": output.AccessToken,
	}, "Token refreshed successfully")
}

// Logout revokes the session behind the refresh cookie and clears it.
// A request without a cookie still succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		if err := h.uc.Logout(c.Request().Context(), cookie.Value); err != nil {
			return errors.WithStack(err)
		}
	}

	h.clearRefreshCookie(c)

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Not authenticated")
	}

	if err := h.uc.RevokeAllSessions(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	h.clearRefreshCookie(c)

	return response.Success(c, http.StatusOK, nil, "All sessions revoked")
}

// OAuthStart redirects the browser to the provider's consent page, pinning an
// anti-forgery state value in a short-lived cookie.
func (h *AuthHandler) OAuthStart(c echo.Context) error {
	provider, err := parseProvider(c.Param("provider"))
	if err != nil {
		return errors.WithStack(err)
	}

	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	authorizeURL, err := h.uc.OAuthAuthorizeURL(provider, state)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusFound, authorizeURL)
}

// OAuthCallback completes the code flow. Success and failure both end in a
// browser redirect to the frontend, never a JSON error body.
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	provider, err := parseProvider(c.Param("provider"))
	if err != nil {
		return h.redirectWithError(c)
	}

	if c.QueryParam("error") != "" {
		h.logger.Warn("OAuth provider returned error", slog.String("provider", provider.String()), slog.String("error", c.QueryParam("error")))

		return h.redirectWithError(c)
	}

	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		h.logger.Warn("OAuth state mismatch", slog.String("provider", provider.String()))

		return h.redirectWithError(c)
	}

	code := c.QueryParam("code")
	if code == "" {
		return h.redirectWithError(c)
	}

	output, err := h.uc.OAuthCallback(c.Request().Context(), usecase.OAuthCallbackInput{
		Provider:  provider,
		Code:      code,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		h.logger.Warn("OAuth callback failed", slog.String("provider", provider.String()), slog.Any("error", err))

		return h.redirectWithError(c)
	}

	h.setRefreshCookie(c, output.RefreshToken)

	query := url.Values{}
	query.Set("accessToken", output.AccessToken)

	return c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/auth/callback?"+query.Encode())
}

func (h *AuthHandler) redirectWithError(c echo.Context) error {
	query := url.Values{}
	query.Set("error", oauthErrorValue)

	return c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/auth/callback?"+query.Encode())
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.RefreshCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func parseProvider(raw string) (entity.ProviderType, error) {
	switch entity.ProviderType(raw) {
	case entity.ProviderTypeGoogle:
		return entity.ProviderTypeGoogle, nil
	case entity.ProviderTypeGitHub:
		return entity.ProviderTypeGitHub, nil
	default:
		return "", domainerrors.ErrOAuthFailed.WrapMessage("unsupported provider")
	}
}
