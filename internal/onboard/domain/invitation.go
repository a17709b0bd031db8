package domain

import "time"

// InvitationStatus is the persisted lifecycle state of an invitation.
type InvitationStatus string

const (
	StatusPendingInviteeResponse   InvitationStatus = "pending_invitee_response"
	StatusPendingManagerReview     InvitationStatus = "pending_manager_review"
	StatusPendingManagerCompletion InvitationStatus = "pending_manager_completion"
	StatusCompleted                InvitationStatus = "completed"
	StatusExpired                  InvitationStatus = "expired"
	StatusCancelled                InvitationStatus = "cancelled"
)

// transitions is the closed set of forward moves. Anything not listed here is
// rejected. Reset is the one deliberate exception: it re-issues a token and
// forces the record back to pending_invitee_response from any state.
var transitions = map[InvitationStatus][]InvitationStatus{
	StatusPendingInviteeResponse:   {StatusPendingManagerReview, StatusExpired, StatusCancelled},
	StatusPendingManagerReview:     {StatusPendingManagerCompletion, StatusCancelled},
	StatusPendingManagerCompletion: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is in the transition table.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible (reset aside).
func (s InvitationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired || s == StatusCancelled
}

// FormData is the free-form field payload collected from the invitee or the
// reviewing manager. Which keys are expected is dictated by the RoleFieldPolicy.
type FormData map[string]string

// Invitation tracks one invite's journey from creation to account activation.
// The raw bearer token is never stored, only its sha256 fingerprint.
type Invitation struct {
	ID        string
	TokenHash string
	Email     string // fixed for the life of the record
	Role      Role   // fixed for the life of the record
	TeamID    string
	InvitedBy string
	Status    InvitationStatus

	InviteeForm FormData
	ManagerForm FormData
	ReviewedBy  string

	ExpiresAt          time.Time
	InviteeSubmittedAt *time.Time
	ReviewedAt         *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time

	// AccountUserID is set once finalization has created (or adopted) an account.
	AccountUserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether the invitation is past its expiry at the given
// instant. Expiry is a read-time derivation: a record past expires_at is
// invalid for invitee-response purposes regardless of its stored status.
func (inv Invitation) ExpiredAt(now time.Time) bool {
	return now.After(inv.ExpiresAt)
}

// PendingInvitation is an invitation joined with inviter details for team
// dashboards.
type PendingInvitation struct {
	Invitation
	InviterEmail string
}
