package store

import (
	"context"
	"errors"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods to keep concerns
// tidy and testable.
type Store interface {
	Invitations() Invitations
	Users() Users

	ApplyMigrations() error

	// SupportsOnboarding reports whether the enhanced invitation schema is
	// available. Callers use this as an explicit capability flag to select
	// the legacy bare-invite path, rather than sniffing error text.
	SupportsOnboarding(ctx context.Context) (bool, error)

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn returns an
	// error and committing otherwise. This is the recommended way to handle
	// multi-step writes that must be atomic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Invitations is the invitation record repository. Mutations that drive state
// transitions are conditional updates guarded by the current status; they
// report whether a row actually changed so the service layer can distinguish
// a lost race from a missing record.
type Invitations interface {
	// CreateInvitation inserts a new record (id is provided by the app via ULID).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns a record by id.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash returns a record by its token fingerprint
	// regardless of status or expiry. Callers derive validity themselves.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// RecordInviteeSubmission writes the invitee payload and advances
	// pending_invitee_response -> pending_manager_review. The update is
	// conditioned on the current status and an unexpired record; it returns
	// false when no row matched.
	RecordInviteeSubmission(ctx context.Context, id string, form domain.FormData, at time.Time) (bool, error)

	// RecordManagerReview writes the manager payload and reviewer identity and
	// advances pending_manager_review -> pending_manager_completion.
	RecordManagerReview(ctx context.Context, id string, form domain.FormData, reviewedBy string, at time.Time) (bool, error)

	// RecordCompletion stamps completed_at and the created account id and
	// advances pending_manager_completion -> completed.
	RecordCompletion(ctx context.Context, id, accountUserID string, at time.Time) (bool, error)

	// RecordCancellation stamps cancelled_at from any non-terminal status.
	RecordCancellation(ctx context.Context, id string, at time.Time) (bool, error)

	// ResetInvitation regenerates the token and expiry, clears both payloads
	// and review metadata, and forces the record back to
	// pending_invitee_response. Allowed from any status.
	ResetInvitation(ctx context.Context, id, tokenHash string, expiresAt, at time.Time) (bool, error)

	// ListPendingByTeam returns a team's records not in a terminal status,
	// joined with inviter details, newest first.
	ListPendingByTeam(ctx context.Context, teamID string) ([]domain.PendingInvitation, error)

	// MarkExpiredInvitations stamps pending_invitee_response records past
	// their expiry as expired. Housekeeping only: expiry is authoritative at
	// read time regardless of this sweep.
	MarkExpiredInvitations(ctx context.Context, now time.Time) (int64, error)
}

// Users is the account repository. It doubles as the auth provider surface:
// finalization creates rows here and staff sessions authenticate against them.
type Users interface {
	// CreateUser inserts a new account (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns an account by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns an account by its unique email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// IsEmpty reports whether any accounts exist (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}
