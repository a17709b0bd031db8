// Package jwtx provides minimal EdDSA-signed JWT issuance and verification
// for staff session tokens.
package jwtx

import (
	"errors"
	"time"
)

var (
	ErrTokenExpired = errors.New("jwtx: token expired")
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Claims is the subset of JWT claims this service issues and checks.
type Claims struct {
	Subject   string
	Issuer    string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidateExpiry checks the expiry claim against the current time.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt.IsZero() || time.Now().After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// HasScope reports whether the claims grant the given scope.
func (c Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
