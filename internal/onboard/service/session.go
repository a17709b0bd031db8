package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	"github.com/agencydesk/onboard/internal/onboard/store"
	"github.com/agencydesk/onboard/pkg/cryptox"
	"github.com/agencydesk/onboard/pkg/jwtx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

// DefaultSessionTTL is the staff session token lifetime.
const DefaultSessionTTL = 12 * time.Hour

// SessionService authenticates staff accounts and issues the signed session
// tokens that guard the manager-side invitation endpoints.
type SessionService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Session is an issued token plus its metadata.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Login verifies credentials and mints a session token scoped by the
// account's role. Lookup misses and password mismatches are reported
// identically so login probing can't enumerate accounts.
func (s *SessionService) Login(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown account")
			return Session{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch account", slog.Any("error", err))
		return Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login attempt with wrong password", slog.String("user_id", user.ID))
		return Session{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	token, err := s.Signer.Sign(jwtx.Claims{
		Subject:   user.ID,
		Issuer:    s.Issuer,
		Scopes:    user.Role.StaffScopes(),
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("session issued",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
