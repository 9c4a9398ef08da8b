package model

import (
	"time"

	"github.com/google/uuid"
)

// FederatedIdentityModel mirrors the 'federated_identities' table. One row per
// credential a user can sign in with, local password included.
type FederatedIdentityModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null"`
	Provider       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_identity_provider_provider_user_id"`
	ProviderUserID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_identity_provider_provider_user_id"`
	PasswordHash   string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (FederatedIdentityModel) TableName() string {
	return "federated_identities"
}

// RefreshTokenModel mirrors the 'refresh_tokens' table. Tokens are stored as
// SHA-256 digests, never in the clear.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(255);unique;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// LoginAttemptModel mirrors the 'login_attempts' table. UserID stays NULL when
// the attempted email never resolved to an account.
type LoginAttemptModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      *uuid.UUID `gorm:"type:uuid;index"`
	Provider    string     `gorm:"type:varchar(50);not null"`
	IPAddress   string     `gorm:"type:varchar(45);not null;index:idx_login_attempts_ip_time"`
	UserAgent   string     `gorm:"type:varchar(512)"`
	Successful  bool       `gorm:"not null"`
	AttemptedAt time.Time  `gorm:"not null;index:idx_login_attempts_ip_time"`
}

// TableName explicitly sets the table name for GORM.
func (LoginAttemptModel) TableName() string {
	return "login_attempts"
}
