// Package session issues and validates the opaque bearer tokens handed out
// after the shared-password check.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue signs a fresh token with a fixed 24h expiry.
func (m *Manager) Issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "verified",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate reports whether the token was issued by us and has not expired.
func (m *Manager) Validate(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	return err == nil && token.Valid
}
