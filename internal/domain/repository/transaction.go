// Package repository defines the interfaces for the persistence layer.
package repository

import "context"

// RepositoryFactory hands out repository instances bound to a single
// transaction. Use cases receive one inside TransactionManager.Execute and
// must not hold on to it afterwards.
type RepositoryFactory interface {
	UserRepo() UserRepository
	IdentityRepo() IdentityRepository
	RefreshTokenRepo() RefreshTokenRepository
}

// TransactionManager runs a function within a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
