package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenLifetime is how long an access token stays valid.
const DefaultTokenLifetime = 60 * time.Minute

// TokenType is the OAuth2 token type returned to clients.
const TokenType = "bearer"

// Claims is the payload of an access token. Subject carries the email.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenManager creates a token manager. A non-positive lifetime selects
// DefaultTokenLifetime.
func NewTokenManager(secret string, lifetime time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenManager{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime returns the configured token lifetime.
func (m *TokenManager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(userID int64, email string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.lifetime)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of tokenString and returns its
// claims. Tokens without a subject, user id or expiry are rejected.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("token is missing identity claims")
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("token has no expiry")
	}
	return claims, nil
}
