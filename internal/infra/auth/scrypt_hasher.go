// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"lingo/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. N is the CPU/memory cost, r the block size, p the
// parallelism factor; together they make one derivation deliberately slow.
const (
	scryptN       = 32768
	scryptR       = 8
	scryptP       = 1
	saltLength    = 16
	keyLength     = 64
	hashSeparator = "."
)

// scryptHasher is a concrete implementation of the PasswordHasher interface
// using the scrypt KDF. The encoded form is hex(salt) "." hex(key); the dot
// never appears in either hex segment, so splitting is unambiguous.
type scryptHasher struct{}

// NewScryptHasher is the constructor for scryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewScryptHasher() service.PasswordHasher {
	return &scryptHasher{}
}

// Hash derives a salted hash from a plaintext password. Every call draws a
// fresh random salt, so hashing the same password twice yields different
// encodings.
func (h *scryptHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive key")
	}

	return hex.EncodeToString(salt) + hashSeparator + hex.EncodeToString(key), nil
}

// Check compares a plaintext password with an encoded hash. It re-derives the
// key with the embedded salt and compares in constant time. Malformed
// encodings report false rather than an error: a broken stored hash and a
// wrong password must be observably identical.
func (h *scryptHasher) Check(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, hashSeparator)
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	key, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false
	}

	if len(key) != len(derived) {
		return false
	}

	return subtle.ConstantTimeCompare(key, derived) == 1
}
