// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"lingo/config"
	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  []byte // Secret key for signing access tokens.
	refreshSecret []byte // Secret key for signing refresh tokens.
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     accessTokenTTL,
		refreshTTL:    refreshTokenTTL,
	}, nil
}

// GenerateAccessToken creates a short-lived access token for a given user.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, s.accessTTL, s.accessSecret, service.TokenTypeAccess)
}

// GenerateRefreshToken creates a long-lived refresh token for a given user.
func (s *jwtService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, s.refreshTTL, s.refreshSecret, service.TokenTypeRefresh)
}

// ValidateAccessToken checks the validity of an access token string.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, service.TokenTypeAccess)
}

// ValidateRefreshToken checks the validity of a refresh token string against
// the refresh secret. Ledger membership is checked by the caller.
func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.validateToken(tokenString, s.refreshSecret, service.TokenTypeRefresh)
}

// HashToken returns the SHA-256 hex digest of a raw token. This is the only
// form under which refresh tokens are persisted.
func (s *jwtService) HashToken(tokenString string) string {
	digest := sha256.Sum256([]byte(tokenString))

	return hex.EncodeToString(digest[:])
}

// RefreshTokenTTL returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, ttl time.Duration, secret []byte, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),     // Subject (who the token is for)
		"iat":  now.Unix(),          // Issued At
		"exp":  now.Add(ttl).Unix(), // Expiration Time
		"type": tokenType,           // Type of token (access or refresh)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// validateToken parses a token string, enforcing a single signing algorithm
// and mapping jwt/v5 failures onto the domain token error taxonomy.
func (s *jwtService) validateToken(tokenString string, secret []byte, wantType string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Only HMAC is ever accepted; an attacker must not be able to pick
		// the algorithm (e.g. downgrade to "none" or swap in an RSA public key).
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token past its expiry")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domainerrors.ErrTokenMalformed.WrapMessage("failed to parse token structure")
		default:
			return nil, domainerrors.ErrTokenInvalid.WrapMessage("token signature verification failed")
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected claims type")
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		// An access token presented on the refresh path (or vice versa) is
		// invalid even though its signature checks out.
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected token type")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("invalid subject claim")
	}

	result := &service.Claims{
		UserID: userID,
		Type:   tokenType,
	}
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		result.ExpiresAt = exp
	}
	if iat, iatErr := claims.GetIssuedAt(); iatErr == nil && iat != nil {
		result.IssuedAt = iat
	}

	return result, nil
}
