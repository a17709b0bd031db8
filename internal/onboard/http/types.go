package http

import (
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
)

// ErrorResponse is the common error body for all endpoints.
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Violations       []string `json:"violations,omitempty"`
}

// InvitationResponse is the full invitation record for authenticated staff.
type InvitationResponse struct {
	ID                 string            `json:"id"`
	Email              string            `json:"email"`
	Role               string            `json:"role"`
	TeamID             string            `json:"team_id"`
	InvitedBy          string            `json:"invited_by"`
	Status             string            `json:"status"`
	InviteeForm        map[string]string `json:"invitee_form,omitempty"`
	ManagerForm        map[string]string `json:"manager_form,omitempty"`
	ReviewedBy         string            `json:"reviewed_by,omitempty"`
	ExpiresAt          time.Time         `json:"expires_at"`
	InviteeSubmittedAt *time.Time        `json:"invitee_submitted_at,omitempty"`
	ReviewedAt         *time.Time        `json:"reviewed_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	AccountUserID      string            `json:"account_user_id,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func toInvitationResponse(inv domain.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:                 inv.ID,
		Email:              inv.Email,
		Role:               string(inv.Role),
		TeamID:             inv.TeamID,
		InvitedBy:          inv.InvitedBy,
		Status:             string(inv.Status),
		InviteeForm:        inv.InviteeForm,
		ManagerForm:        inv.ManagerForm,
		ReviewedBy:         inv.ReviewedBy,
		ExpiresAt:          inv.ExpiresAt,
		InviteeSubmittedAt: inv.InviteeSubmittedAt,
		ReviewedAt:         inv.ReviewedAt,
		CompletedAt:        inv.CompletedAt,
		CancelledAt:        inv.CancelledAt,
		AccountUserID:      inv.AccountUserID,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
	}
}

// CreateInvitationRequest is the body for POST /v1/invitations.
type CreateInvitationRequest struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	TeamID string `json:"team_id"`
}

// CreateInvitationResponse includes delivery status alongside the record. The
// legacy path has no record, so the invitation is omitted there.
type CreateInvitationResponse struct {
	Invitation *InvitationResponse `json:"invitation,omitempty"`
	Delivered  bool                `json:"delivered"`
	Legacy     bool                `json:"legacy"`
}

// ValidateTokenResponse exposes only what an anonymous invitee needs to render
// the onboarding form. Internal fields and inviter identity stay hidden.
type ValidateTokenResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Fields    []string  `json:"fields"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubmitFormRequest is the body for POST /v1/invitations/submit.
type SubmitFormRequest struct {
	Token string            `json:"token"`
	Form  map[string]string `json:"form"`
}

// ReviewRequest is the body for POST /v1/invitations/{id}/review.
type ReviewRequest struct {
	Form map[string]string `json:"form"`
}

// FinalizeRequest is the body for POST /v1/invitations/{id}/finalize.
type FinalizeRequest struct {
	Password string `json:"password"`
}

// UserResponse is the account record returned by finalization and login.
type UserResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Role      string            `json:"role"`
	TeamID    string            `json:"team_id"`
	Profile   map[string]string `json:"profile,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		TeamID:    u.TeamID,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}

// ListInvitationsResponse is the body for GET /v1/invitations.
type ListInvitationsResponse struct {
	Invitations []PendingInvitationResponse `json:"invitations"`
}

// PendingInvitationResponse decorates an invitation with the inviter's email
// for team dashboards.
type PendingInvitationResponse struct {
	InvitationResponse
	InviterEmail string `json:"inviter_email,omitempty"`
}

// FieldPolicyResponse is the body for GET /v1/invitations/fields.
type FieldPolicyResponse struct {
	Role     string   `json:"role"`
	Public   []string `json:"public"`
	Internal []string `json:"internal"`
}

// LoginRequest is the body for POST /v1/sessions.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Schema   string `json:"schema"`
}
