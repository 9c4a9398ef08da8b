// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record of the platform. It holds only what is
// shared across every sign-in method; the credentials themselves live in
// FederatedIdentity rows.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email     string    // The user's contact email. Empty for provider-only accounts that expose no address.
	Name      string    // The user's display name.
	IsActive  bool      // Whether the account may sign in. Accounts are deactivated, never deleted, by this subsystem.
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
