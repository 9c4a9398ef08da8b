package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"lingo/config"
	"lingo/internal/domain/entity"
	"lingo/internal/domain/repository"
	"lingo/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthConfig(maxAttempts int, window time.Duration) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			RateLimitMaxAttempts: maxAttempts,
			RateLimitWindow:      window,
			SweepInterval:        time.Hour,
		},
	}
}

// stubTxManager runs the callback against a fixed repository factory without
// a real database transaction.
type stubTxManager struct {
	factory repository.RepositoryFactory
}

func (s *stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s.factory)
}

type stubRepoFactory struct {
	userRepo     repository.UserRepository
	identityRepo repository.IdentityRepository
	tokenRepo    repository.RefreshTokenRepository
}

func (s *stubRepoFactory) UserRepo() repository.UserRepository                 { return s.userRepo }
func (s *stubRepoFactory) IdentityRepo() repository.IdentityRepository         { return s.identityRepo }
func (s *stubRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository { return s.tokenRepo }

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*entity.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*entity.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

type mockIdentityRepository struct {
	mock.Mock
}

func (m *mockIdentityRepository) Create(ctx context.Context, identity *entity.FederatedIdentity) error {
	args := m.Called(ctx, identity)

	return args.Error(0)
}

func (m *mockIdentityRepository) FindByProviderUserID(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.FederatedIdentity, error) {
	args := m.Called(ctx, provider, providerUserID)
	if identity := args.Get(0); identity != nil {
		return identity.(*entity.FederatedIdentity), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockIdentityRepository) FindLocalByUserID(ctx context.Context, userID uuid.UUID) (*entity.FederatedIdentity, error) {
	args := m.Called(ctx, userID)
	if identity := args.Get(0); identity != nil {
		return identity.(*entity.FederatedIdentity), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockIdentityRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.FederatedIdentity, error) {
	args := m.Called(ctx, userID)
	if identities := args.Get(0); identities != nil {
		return identities.([]*entity.FederatedIdentity), args.Error(1)
	}

	return nil, args.Error(1)
}

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *mockRefreshTokenRepository) FindActiveByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if token := args.Get(0); token != nil {
		return token.(*entity.RefreshToken), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *mockRefreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

type mockLoginAttemptRepository struct {
	mock.Mock
}

func (m *mockLoginAttemptRepository) Create(ctx context.Context, attempt *entity.LoginAttempt) error {
	args := m.Called(ctx, attempt)

	return args.Error(0)
}

func (m *mockLoginAttemptRepository) CountRecentFailures(ctx context.Context, ipAddress string, window time.Duration) (int, error) {
	args := m.Called(ctx, ipAddress, window)

	return args.Int(0), args.Error(1)
}

func (m *mockLoginAttemptRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoginAttempt, error) {
	args := m.Called(ctx, userID, limit)
	if attempts := args.Get(0); attempts != nil {
		return attempts.([]*entity.LoginAttempt), args.Error(1)
	}

	return nil, args.Error(1)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, encodedHash string) bool {
	args := m.Called(password, encodedHash)

	return args.Bool(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ValidateAccessToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if claims := args.Get(0); claims != nil {
		return claims.(*service.Claims), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if claims := args.Get(0); claims != nil {
		return claims.(*service.Claims), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) HashToken(token string) string {
	args := m.Called(token)

	return args.String(0)
}

func (m *mockTokenService) RefreshTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockOAuthProvider struct {
	mock.Mock
	provider entity.ProviderType
}

func (m *mockOAuthProvider) Provider() entity.ProviderType {
	return m.provider
}

func (m *mockOAuthProvider) AuthCodeURL(state string) string {
	args := m.Called(state)

	return args.String(0)
}

func (m *mockOAuthProvider) Exchange(ctx context.Context, code string) (*service.OAuthProfile, error) {
	args := m.Called(ctx, code)
	if profile := args.Get(0); profile != nil {
		return profile.(*service.OAuthProfile), args.Error(1)
	}

	return nil, args.Error(1)
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) bool { return true }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) bool { return false }
