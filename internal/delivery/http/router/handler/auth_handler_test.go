package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lingo/config"
	"lingo/internal/delivery/http/validator"
	"lingo/internal/domain/entity"
	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if output := args.Get(0); output != nil {
		return output.(*usecase.RegisterOutput), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if output := args.Get(0); output != nil {
		return output.(*usecase.LoginOutput), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthUsecase) OAuthAuthorizeURL(provider entity.ProviderType, state string) (string, error) {
	args := m.Called(provider, state)

	return args.String(0), args.Error(1)
}

func (m *mockAuthUsecase) OAuthCallback(ctx context.Context, input usecase.OAuthCallbackInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if output := args.Get(0); output != nil {
		return output.(*usecase.LoginOutput), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	args := m.Called(ctx, refreshToken)
	if output := args.Get(0); output != nil {
		return output.(*usecase.RefreshOutput), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)

	return args.Error(0)
}

func (m *mockAuthUsecase) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *mockAuthUsecase) LoginHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoginAttempt, error) {
	args := m.Called(ctx, userID, limit)
	if attempts := args.Get(0); attempts != nil {
		return attempts.([]*entity.LoginAttempt), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthUsecase) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if user := args.Get(0); user != nil {
		return user.(*entity.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func newHandlerConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			RefreshCookieMaxAge: 7 * 24 * time.Hour,
		},
		FrontendURL: "https://app.example.com",
	}

	return cfg
}

func newTestContext(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return NewAuthHandler(uc, newHandlerConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}

func TestAuthHandler_Login_SetsRefreshCookie(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	user := &entity.User{ID: uuid.New(), Email: "user@example.com", IsActive: true}
	uc.On("Login", mock.Anything, mock.AnythingOfType("usecase.LoginInput")).Return(&usecase.LoginOutput{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         user,
	}, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"Password123!"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access-token")
	assert.NotContains(t, rec.Body.String(), "refresh-token")

	cookie := findCookie(rec, "refresh_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":""}`)

	err := h.Login(c)
	require.Error(t, err)
	uc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	user := &entity.User{ID: uuid.New(), Email: "new@example.com", Name: "New User", IsActive: true}
	uc.On("Register", mock.Anything, usecase.RegisterInput{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "Password123!",
	}).Return(&usecase.RegisterOutput{User: user}, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"name":"New User","email":"new@example.com","password":"Password123!"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")
}

func TestAuthHandler_Refresh_MissingCookie(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	c, _ := newTestContext(http.MethodPost, "/auth/refresh", "")

	err := h.Refresh(c)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	uc.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	uc.On("Refresh", mock.Anything, "refresh-token").Return(&usecase.RefreshOutput{AccessToken: "new-access"}, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh-token"})

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new-access")
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)

	cookie := findCookie(rec, "refresh_token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandler_Logout_RevokesCookieSession(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	uc.On("Logout", mock.Anything, "refresh-token").Return(nil)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh-token"})

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertCalled(t, "Logout", mock.Anything, "refresh-token")
}

func TestAuthHandler_OAuthStart_RedirectsWithState(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	uc.On("OAuthAuthorizeURL", entity.ProviderTypeGoogle, mock.AnythingOfType("string")).
		Return("https://accounts.google.com/consent", nil)

	c, rec := newTestContext(http.MethodGet, "/auth/google", "")
	c.SetParamNames("provider")
	c.SetParamValues("google")

	require.NoError(t, h.OAuthStart(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.google.com/consent", rec.Header().Get(echo.HeaderLocation))

	state := findCookie(rec, "oauth_state")
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	assert.True(t, state.HttpOnly)
}

func TestAuthHandler_OAuthStart_UnknownProvider(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	c, _ := newTestContext(http.MethodGet, "/auth/facebook", "")
	c.SetParamNames("provider")
	c.SetParamValues("facebook")

	err := h.OAuthStart(c)
	assert.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
}

func TestAuthHandler_OAuthCallback_Success(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	user := &entity.User{ID: uuid.New(), Email: "user@example.com", IsActive: true}
	uc.On("OAuthCallback", mock.Anything, mock.AnythingOfType("usecase.OAuthCallbackInput")).
		Return(&usecase.LoginOutput{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User:         user,
		}, nil)

	c, rec := newTestContext(http.MethodGet, "/auth/google/callback?code=auth-code&state=state-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	c.SetParamNames("provider")
	c.SetParamValues("google")

	require.NoError(t, h.OAuthCallback(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://app.example.com/auth/callback?accessToken=access-token", rec.Header().Get(echo.HeaderLocation))

	cookie := findCookie(rec, "refresh_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-token", cookie.Value)
}

func TestAuthHandler_OAuthCallback_StateMismatch(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	c, rec := newTestContext(http.MethodGet, "/auth/google/callback?code=auth-code&state=state-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "oauth_state", Value: "another-state"})
	c.SetParamNames("provider")
	c.SetParamValues("google")

	require.NoError(t, h.OAuthCallback(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://app.example.com/auth/callback?error=authentication_failed", rec.Header().Get(echo.HeaderLocation))
	uc.AssertNotCalled(t, "OAuthCallback", mock.Anything, mock.Anything)
}

func TestAuthHandler_OAuthCallback_ExchangeFailureRedirects(t *testing.T) {
	uc := &mockAuthUsecase{}
	h := newAuthHandler(uc)

	uc.On("OAuthCallback", mock.Anything, mock.AnythingOfType("usecase.OAuthCallbackInput")).
		Return(nil, domainerrors.ErrOAuthFailed)

	c, rec := newTestContext(http.MethodGet, "/auth/google/callback?code=bad-code&state=state-1", "")
	c.Request().AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	c.SetParamNames("provider")
	c.SetParamValues("google")

	require.NoError(t, h.OAuthCallback(c))
	assert.Equal(t, "https://app.example.com/auth/callback?error=authentication_failed", rec.Header().Get(echo.HeaderLocation))
}
