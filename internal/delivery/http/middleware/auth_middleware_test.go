package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenService accepts a single known token and maps it to a fixed user.
type stubTokenService struct {
	validToken string
	userID     uuid.UUID
}

func (s *stubTokenService) GenerateAccessToken(uuid.UUID) (string, error)  { return "", nil }
func (s *stubTokenService) GenerateRefreshToken(uuid.UUID) (string, error) { return "", nil }
func (s *stubTokenService) HashToken(token string) string                  { return token }
func (s *stubTokenService) RefreshTokenTTL() time.Duration                 { return time.Hour }

func (s *stubTokenService) ValidateAccessToken(token string) (*service.Claims, error) {
	if token != s.validToken {
		return nil, domainerrors.ErrTokenInvalid
	}

	return &service.Claims{UserID: s.userID, Type: service.TokenTypeAccess}, nil
}

func (s *stubTokenService) ValidateRefreshToken(string) (*service.Claims, error) {
	return nil, domainerrors.ErrTokenInvalid
}

func runAuthenticate(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	userID := uuid.New()
	m := NewAuthMiddleware(&stubTokenService{validToken: "good-token", userID: userID})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID uuid.UUID
	var reached bool
	handler := m.Authenticate(func(c echo.Context) error {
		reached = true
		gotUserID, _ = UserID(c)

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	return rec, gotUserID, reached
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, gotUserID, reached := runAuthenticate(t, "Bearer good-token")

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, uuid.Nil, gotUserID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _, reached := runAuthenticate(t, "")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_NotBearer(t *testing.T) {
	rec, _, reached := runAuthenticate(t, "Basic Zm9vOmJhcg==")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, _, reached := runAuthenticate(t, "Bearer forged-token")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
