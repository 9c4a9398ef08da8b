// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"lingo/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrIdentityNotFound is returned when a sign-in method is not found.
var ErrIdentityNotFound = errors.New("federated identity not found")

// IdentityRepository defines the operations for credential persistence: the
// local email/password identity and the federated OAuth identities.
type IdentityRepository interface {
	// Create persists a new sign-in method for a user.
	Create(ctx context.Context, identity *entity.FederatedIdentity) error

	// FindByProviderUserID retrieves a federated identity by its provider and
	// provider-specific user ID.
	FindByProviderUserID(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.FederatedIdentity, error)

	// FindLocalByUserID retrieves the local (password) identity of a user.
	// A user has exactly zero or one such row.
	FindLocalByUserID(ctx context.Context, userID uuid.UUID) (*entity.FederatedIdentity, error)

	// ListByUserID retrieves every sign-in method linked to a user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.FederatedIdentity, error)
}
