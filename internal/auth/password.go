// Package auth provides account credentials and bearer tokens for the escudo
// API: bcrypt password hashing, HS256 access tokens, and resolution of a
// token to the identity that owns scan results.
package auth

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// BcryptCost is the bcrypt work factor used for new hashes.
	BcryptCost = 12
	// BcryptMaxInputLength is the maximum input length bcrypt accepts.
	BcryptMaxInputLength = 72
)

// bcryptCost is lowered in tests.
var bcryptCost = BcryptCost

// passwordBytes pre-hashes inputs longer than bcrypt accepts so they are not
// silently truncated.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > BcryptMaxInputLength {
		sum := sha256.Sum256(b)
		b = sum[:]
	}
	return b
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches storedHash.
func CheckPassword(password, storedHash string) bool {
	if password == "" || storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), passwordBytes(password)) == nil
}
