// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "lingo/internal/delivery/context"
	"lingo/internal/domain/entity"
	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/domain/repository"
	"lingo/internal/domain/service"
	"lingo/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultLoginHistoryLimit = 20

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	identityRepo     repository.IdentityRepository
	refreshTokenRepo repository.RefreshTokenRepository
	attemptRepo      repository.LoginAttemptRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	rateLimiter      usecase.LoginRateLimiter
	providers        map[entity.ProviderType]service.OAuthProvider
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	IdentityRepo     repository.IdentityRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	AttemptRepo      repository.LoginAttemptRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	RateLimiter      usecase.LoginRateLimiter
	Providers        []service.OAuthProvider `group:"oauth_providers"`
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	providers := make(map[entity.ProviderType]service.OAuthProvider, len(params.Providers))
	for _, p := range params.Providers {
		providers[p.Provider()] = p
	}

	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		identityRepo:     params.IdentityRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		attemptRepo:      params.AttemptRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		rateLimiter:      params.RateLimiter,
		providers:        providers,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new user together with their local password identity in
// one transaction.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	var registered *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		identityRepo := repoFactory.IdentityRepo()

		if _, err := userRepo.FindByEmail(ctx, input.Email); err == nil {
			return domainerrors.ErrUserAlreadyExists
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up email")
		}

		newUser := &entity.User{
			Email:    input.Email,
			Name:     input.Name,
			IsActive: true,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		newIdentity := &entity.FederatedIdentity{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeLocal,
			ProviderUserID: input.Email,
			PasswordHash:   hashedPassword,
		}
		if err := identityRepo.Create(ctx, newIdentity); err != nil {
			return errors.Wrap(err, "failed to create local identity")
		}

		registered = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registered.ID))

	return &usecase.RegisterOutput{User: registered}, nil
}

// Login verifies a password credential and opens a new session. Every outcome
// is appended to the attempt log; logging failures never block the login.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	userID := uuid.Nil
	successful := false
	defer func() {
		srv.recordAttempt(ctx, userID, entity.ProviderTypeLocal, input.IPAddress, input.UserAgent, successful)
	}()

	// A throttled request still counts as a failed attempt, so hammering
	// during a lockout keeps extending the window.
	if !srv.rateLimiter.Allow(ctx, input.IPAddress) {
		srv.log(ctx).Warn("Login throttled", slog.String("ip", input.IPAddress))

		return nil, domainerrors.ErrTooManyAttempts
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}
	userID = user.ID

	identity, err := srv.identityRepo.FindLocalByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			// OAuth-only account, no password to check against.
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load local identity")
	}

	if !srv.hasher.Check(input.Password, identity.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch at login", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domainerrors.ErrUserInactive
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	successful = true

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return output, nil
}

// OAuthAuthorizeURL builds the provider consent URL for the given state.
func (srv *authService) OAuthAuthorizeURL(provider entity.ProviderType, state string) (string, error) {
	p, ok := srv.providers[provider]
	if !ok {
		return "", domainerrors.ErrOAuthFailed.WrapMessage("unsupported provider")
	}

	return p.AuthCodeURL(state), nil
}

// OAuthCallback completes the authorization-code flow. First-time sign-ins
// create the user and identity atomically; returning users are matched by
// provider identity first, then by email.
func (srv *authService) OAuthCallback(ctx context.Context, input usecase.OAuthCallbackInput) (*usecase.LoginOutput, error) {
	p, ok := srv.providers[input.Provider]
	if !ok {
		return nil, domainerrors.ErrOAuthFailed.WrapMessage("unsupported provider")
	}

	profile, err := p.Exchange(ctx, input.Code)
	if err != nil {
		srv.log(ctx).Warn("OAuth code exchange failed", slog.String("provider", input.Provider.String()), slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed
	}

	userID := uuid.Nil
	successful := false
	defer func() {
		srv.recordAttempt(ctx, userID, input.Provider, input.IPAddress, input.UserAgent, successful)
	}()

	user, err := srv.resolveOAuthUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	userID = user.ID

	if !user.IsActive {
		return nil, domainerrors.ErrUserInactive
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	successful = true

	srv.log(ctx).Info("OAuth login succeeded", slog.String("provider", input.Provider.String()), slog.Any("userID", user.ID))

	return output, nil
}

// resolveOAuthUser finds the user behind an OAuth profile. An unknown
// identity is linked to the existing account with the same email, or a fresh
// account is created when none matches. Providers only surface verified
// addresses, so a profile without an email gets a provider-only account
// rather than a link.
func (srv *authService) resolveOAuthUser(ctx context.Context, profile *service.OAuthProfile) (*entity.User, error) {
	identity, err := srv.identityRepo.FindByProviderUserID(ctx, profile.Provider, profile.ID)
	if err == nil {
		user, err := srv.userRepo.FindByID(ctx, identity.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load user for identity")
		}

		return user, nil
	}
	if !errors.Is(err, repository.ErrIdentityNotFound) {
		return nil, errors.Wrap(err, "failed to look up oauth identity")
	}

	var resolved *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		identityRepo := repoFactory.IdentityRepo()

		var user *entity.User
		if profile.Email != "" {
			existing, err := userRepo.FindByEmail(ctx, profile.Email)
			if err == nil {
				user = existing
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(err, "failed to look up email")
			}
		}
		if user == nil {
			user = &entity.User{
				Email:    profile.Email,
				Name:     profile.Name,
				IsActive: true,
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return errors.Wrap(err, "failed to create user from oauth profile")
			}
		}

		newIdentity := &entity.FederatedIdentity{
			UserID:         user.ID,
			Provider:       profile.Provider,
			ProviderUserID: profile.ID,
		}
		if err := identityRepo.Create(ctx, newIdentity); err != nil {
			return errors.Wrap(err, "failed to link oauth identity")
		}

		resolved = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

// openSession mints the token pair and persists the refresh token hash.
func (srv *authService) openSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	record := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.RefreshTokenTTL()),
	}
	if err := srv.refreshTokenRepo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to persist refresh token")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh validates the refresh token against both the JWT signature and the
// stored ledger, then mints a fresh access token.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	record, err := srv.refreshTokenRepo.FindActiveByHash(ctx, srv.tokenService.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}

	if record.UserID != claims.UserID {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load user")
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUserInactive
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(record.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

// Logout revokes the session behind a refresh token. Unknown or already
// revoked tokens are treated as success so logout stays idempotent.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := srv.refreshTokenRepo.RevokeByHash(ctx, srv.tokenService.HashToken(refreshToken)); err != nil {
		return errors.Wrap(err, "failed to revoke refresh token")
	}

	return nil
}

// RevokeAllSessions revokes every active session of a user.
func (srv *authService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	if err := srv.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to revoke user sessions")
	}

	srv.log(ctx).Info("Revoked all sessions", slog.Any("userID", userID))

	return nil
}

// LoginHistory returns a user's most recent login attempts.
func (srv *authService) LoginHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoginAttempt, error) {
	if limit <= 0 {
		limit = defaultLoginHistoryLimit
	}

	attempts, err := srv.attemptRepo.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load login history")
	}

	return attempts, nil
}

// GetUser loads a user's profile.
func (srv *authService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user")
	}

	return user, nil
}

// recordAttempt appends one row to the audit log. Failures are logged and
// swallowed; auditing problems must not change authentication outcomes.
func (srv *authService) recordAttempt(ctx context.Context, userID uuid.UUID, provider entity.ProviderType, ip, userAgent string, successful bool) {
	attempt := &entity.LoginAttempt{
		UserID:      userID,
		Provider:    provider,
		IPAddress:   ip,
		UserAgent:   userAgent,
		Successful:  successful,
		AttemptedAt: time.Now(),
	}

	if err := srv.attemptRepo.Create(ctx, attempt); err != nil {
		srv.log(ctx).Error("Failed to record login attempt", slog.String("ip", ip), slog.Any("error", err))
	}
}
