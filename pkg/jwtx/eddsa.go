package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed tokens from claims.
type Signer interface {
	Sign(c Claims) (string, error)
}

// Verifier parses and validates a raw token string.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// GenerateKeyPair returns a fresh Ed25519 key pair. Used for ephemeral session
// keys when no key file is configured.
func GenerateKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

type EdDSASigner struct {
	key ed25519.PrivateKey
}

func NewEdDSASigner(key ed25519.PrivateKey) *EdDSASigner {
	return &EdDSASigner{key: key}
}

func (s *EdDSASigner) Sign(c Claims) (string, error) {
	now := c.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}

	claims := jwt.MapClaims{
		"sub":   c.Subject,
		"iss":   c.Issuer,
		"scope": strings.Join(c.Scopes, " "),
		"iat":   now.Unix(),
		"exp":   c.ExpiresAt.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.key)
}

type EdDSAVerifier struct {
	key    ed25519.PublicKey
	issuer string
}

func NewEdDSAVerifier(key ed25519.PublicKey, issuer string) *EdDSAVerifier {
	return &EdDSAVerifier{key: key, issuer: issuer}
}

func (v *EdDSAVerifier) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, ErrInvalidToken
		}
		return v.key, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iss, err := mc.GetIssuer(); err == nil {
		claims.Issuer = iss
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if scope, ok := mc["scope"].(string); ok {
		claims.Scopes = strings.Fields(scope)
	}

	return claims, nil
}
