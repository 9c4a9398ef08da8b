// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying key derivation function (e.g., scrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash derives a salted hash from a plaintext password and returns it as
	// a single encoded string.
	Hash(password string) (string, error)

	// Check compares a plaintext password with an encoded hash. A malformed
	// encoded hash reports false, exactly like a wrong password.
	Check(password, encodedHash string) bool
}
