package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	"github.com/agencydesk/onboard/internal/onboard/mail"
	"github.com/agencydesk/onboard/internal/onboard/store"
	"github.com/agencydesk/onboard/internal/onboard/validation"
	"github.com/agencydesk/onboard/pkg/cryptox"
	"github.com/agencydesk/onboard/pkg/idx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

// InvitationTTL is how long an invitee has to respond before the token goes
// stale.
const InvitationTTL = 72 * time.Hour

// InvitationMailer is the slice of the mailer the workflow needs; tests stub it.
type InvitationMailer interface {
	SendInvitation(ctx context.Context, inv mail.Invitation) error
	SendLegacyInvitation(ctx context.Context, inv mail.Invitation) error
}

type InvitationService struct {
	Store   store.Store
	Mailer  InvitationMailer
	BaseURL string
}

// CreateResult reports the outcome of invitation creation. Delivered is best
// effort: a false value means the invitation exists but the email needs manual
// follow-up.
type CreateResult struct {
	Invitation domain.Invitation
	Token      string
	Delivered  bool
	Legacy     bool
}

// CreateInvitation mints a fresh opaque token and persists a new invitation in
// pending_invitee_response, then dispatches the invitation email best effort.
// When the enhanced schema is unavailable it falls back to the legacy bare
// invite path, which sends an email without a workflow record.
func (s *InvitationService) CreateInvitation(
	ctx context.Context,
	email, role, teamID, inviterID string,
) (CreateResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input before touching the store.
	email = validation.CleanEmailInput(email)
	if email == "" || role == "" || teamID == "" || inviterID == "" {
		log.Warn("invitation creation missing required fields")
		return CreateResult{}, ErrInvalidInvitationRequest
	}
	if err := validation.ValidateEmailFormat(email, "email"); err != nil {
		return CreateResult{}, &FormValidationError{Violations: []validation.FieldError{err.(validation.FieldError)}}
	}
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		log.Warn("invitation creation with unknown role", slog.String("role", role))
		return CreateResult{}, ErrInvalidInvitationRequest
	}

	// 2. Generate the bearer token; only its fingerprint is stored.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return CreateResult{}, err
	}

	// 3. Explicit schema capability check selects the legacy path.
	supported, err := s.Store.SupportsOnboarding(ctx)
	if err != nil {
		log.Error("failed to check schema capability", slog.Any("error", err))
		return CreateResult{}, err
	}
	if !supported {
		return s.createLegacyInvitation(ctx, email, string(parsedRole), token)
	}

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		Role:      parsedRole,
		TeamID:    teamID,
		InvitedBy: inviterID,
		Status:    domain.StatusPendingInviteeResponse,
		ExpiresAt: now.Add(InvitationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return CreateResult{}, err
	}

	delivered := s.dispatchInvitation(ctx, inv, token)

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("role", string(inv.Role)),
		slog.String("team_id", inv.TeamID),
		slog.Bool("delivered", delivered),
	)

	return CreateResult{Invitation: inv, Token: token, Delivered: delivered}, nil
}

// createLegacyInvitation sends a bare invite email without a workflow record.
func (s *InvitationService) createLegacyInvitation(
	ctx context.Context,
	email, role, token string,
) (CreateResult, error) {
	log := slogx.FromContext(ctx)

	err := s.Mailer.SendLegacyInvitation(ctx, mail.Invitation{
		Email:         email,
		Role:          role,
		InvitationURL: s.invitationURL(token),
	})
	delivered := err == nil
	if err != nil {
		log.Warn("legacy invitation email failed", slog.Any("error", err))
	}

	log.Info("legacy invitation sent", slog.String("role", role), slog.Bool("delivered", delivered))
	return CreateResult{Token: token, Delivered: delivered, Legacy: true}, nil
}

// ValidateToken resolves a bearer token to its invitation if, and only if, the
// record is still awaiting the invitee and unexpired. For pending records
// expiry is derived from expires_at at read time; records that already moved
// past the invitee stage keep reporting ErrAlreadySubmitted.
func (s *InvitationService) ValidateToken(ctx context.Context, token string) (domain.Invitation, error) {
	if token == "" {
		return domain.Invitation{}, ErrTokenNotFound
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrTokenNotFound
		}
		return domain.Invitation{}, err
	}

	switch {
	case inv.Status == domain.StatusCancelled:
		return domain.Invitation{}, ErrInvitationCancelled
	case inv.Status == domain.StatusExpired:
		return domain.Invitation{}, ErrTokenExpired
	case inv.Status != domain.StatusPendingInviteeResponse:
		return domain.Invitation{}, ErrAlreadySubmitted
	case inv.ExpiredAt(time.Now().UTC()):
		return domain.Invitation{}, ErrTokenExpired
	}

	return inv, nil
}

// SubmitInviteeForm records the invitee's one allowed submission and advances
// the record to pending_manager_review. The write is conditioned on the token
// still matching an unexpired pending record, so a racing second submission
// changes nothing and is reported as ErrAlreadySubmitted.
func (s *InvitationService) SubmitInviteeForm(
	ctx context.Context,
	token string,
	form domain.FormData,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. The token must still be valid before any validation feedback leaks
	// record details.
	inv, err := s.ValidateToken(ctx, token)
	if err != nil {
		return domain.Invitation{}, err
	}

	// 2. Clean, then validate every required public field for the record's
	// role. All violations are reported at once and no transition happens.
	cleaned := validation.CleanFormData(form)
	required := domain.FormFieldsForRole(inv.Role, domain.VisibilityPublic)
	if violations := validation.ValidateFormData(cleaned, required); len(violations) > 0 {
		return domain.Invitation{}, &FormValidationError{Violations: violations}
	}

	// 3. Persist only the policy's public fields; anything else the client
	// sent is dropped.
	payload := make(domain.FormData, len(required))
	for _, field := range required {
		payload[field] = cleaned[field]
	}

	now := time.Now().UTC()
	updated, err := s.Store.Invitations().RecordInviteeSubmission(ctx, inv.ID, payload, now)
	if err != nil {
		log.Error("failed to record invitee submission",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, err
	}
	if !updated {
		return domain.Invitation{}, s.diagnoseSubmissionMiss(ctx, inv.ID)
	}

	log.Info("invitee form submitted", slog.String("invitation_id", inv.ID))

	return s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
}

// diagnoseSubmissionMiss disambiguates a conditional-update miss: the record
// may have been deleted, expired, or advanced by a racing submission.
func (s *InvitationService) diagnoseSubmissionMiss(ctx context.Context, id string) error {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if inv.Status == domain.StatusCancelled {
		return ErrInvitationCancelled
	}
	if inv.ExpiredAt(time.Now().UTC()) && inv.Status == domain.StatusPendingInviteeResponse {
		return ErrTokenExpired
	}
	return ErrAlreadySubmitted
}

// CompleteManagerReview records the manager's payload and reviewer identity
// and advances pending_manager_review -> pending_manager_completion.
func (s *InvitationService) CompleteManagerReview(
	ctx context.Context,
	invitationID string,
	form domain.FormData,
	managerID string,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if invitationID == "" || managerID == "" {
		return domain.Invitation{}, ErrInvalidInvitationRequest
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}
		return domain.Invitation{}, err
	}

	// The record must still be awaiting review before any payload feedback
	// is produced.
	if inv.Status != domain.StatusPendingManagerReview {
		return domain.Invitation{}, ErrInvalidState
	}

	cleaned := validation.CleanFormData(form)
	required := domain.FormFieldsForRole(inv.Role, domain.VisibilityInternal)
	if violations := validation.ValidateFormData(cleaned, required); len(violations) > 0 {
		return domain.Invitation{}, &FormValidationError{Violations: violations}
	}

	payload := make(domain.FormData, len(required))
	for _, field := range required {
		payload[field] = cleaned[field]
	}

	now := time.Now().UTC()
	updated, err := s.Store.Invitations().RecordManagerReview(ctx, inv.ID, payload, managerID, now)
	if err != nil {
		log.Error("failed to record manager review",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, err
	}
	if !updated {
		return domain.Invitation{}, ErrInvalidState
	}

	log.Info("manager review completed",
		slog.String("invitation_id", inv.ID),
		slog.String("reviewed_by", managerID),
	)

	return s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
}

// FinalizeAccountCreation creates (or adopts) the account for a fully reviewed
// invitation and marks it completed. The operation is idempotent per
// invitation: retrying after a partial failure adopts the already-created
// account instead of failing on the unique email.
func (s *InvitationService) FinalizeAccountCreation(
	ctx context.Context,
	invitationID string,
	password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if invitationID == "" {
		return domain.User{}, ErrInvalidInvitationRequest
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvitationNotFound
		}
		return domain.User{}, err
	}

	// Idempotent retry: a completed record with an account already attached
	// returns that account.
	if inv.Status == domain.StatusCompleted && inv.AccountUserID != "" {
		return s.Store.Users().GetUserByID(ctx, inv.AccountUserID)
	}
	if inv.Status != domain.StatusPendingManagerCompletion {
		return domain.User{}, ErrInvalidState
	}

	if err := validation.ValidatePasswordStrength(password); err != nil {
		return domain.User{}, &FormValidationError{Violations: []validation.FieldError{err.(validation.FieldError)}}
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	// Merge invitee and manager payloads; manager values win on conflict.
	profile := make(domain.FormData, len(inv.InviteeForm)+len(inv.ManagerForm))
	for k, v := range inv.InviteeForm {
		profile[k] = v
	}
	for k, v := range inv.ManagerForm {
		profile[k] = v
	}

	now := time.Now().UTC()
	var account domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, inv.Email)
		switch {
		case err == nil:
			// Adopt the account from an earlier partially-failed attempt.
			account = existing
		case errors.Is(err, store.ErrNotFound):
			account = domain.User{
				ID:           idx.New().String(),
				Email:        inv.Email,
				Role:         inv.Role,
				TeamID:       inv.TeamID,
				PasswordHash: passwordHash,
				Profile:      profile,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Users().CreateUser(ctx, account); err != nil {
				return err
			}
		default:
			return err
		}

		updated, err := tx.Invitations().RecordCompletion(ctx, inv.ID, account.ID, now)
		if err != nil {
			return err
		}
		if !updated {
			return ErrInvalidState
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidState) {
			log.Error("failed to finalize invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
		return domain.User{}, err
	}

	log.Info("invitation completed",
		slog.String("invitation_id", inv.ID),
		slog.String("user_id", account.ID),
		slog.String("role", string(account.Role)),
	)

	return account, nil
}

// CancelInvitation moves a non-terminal invitation to cancelled.
func (s *InvitationService) CancelInvitation(ctx context.Context, invitationID, cancelledBy string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if invitationID == "" || cancelledBy == "" {
		return domain.Invitation{}, ErrInvalidInvitationRequest
	}

	now := time.Now().UTC()
	updated, err := s.Store.Invitations().RecordCancellation(ctx, invitationID, now)
	if err != nil {
		return domain.Invitation{}, err
	}
	if !updated {
		if _, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID); errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}
		return domain.Invitation{}, ErrInvalidState
	}

	log.Info("invitation cancelled",
		slog.String("invitation_id", invitationID),
		slog.String("cancelled_by", cancelledBy),
	)

	return s.Store.Invitations().GetInvitationByID(ctx, invitationID)
}

// ResetInvitation regenerates the token and expiry, clears all submitted data
// and review metadata, and forces the record back to pending_invitee_response.
// Used for resends; the fresh token is emailed best effort.
func (s *InvitationService) ResetInvitation(ctx context.Context, invitationID string) (CreateResult, error) {
	log := slogx.FromContext(ctx)

	if invitationID == "" {
		return CreateResult{}, ErrInvalidInvitationRequest
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return CreateResult{}, err
	}

	now := time.Now().UTC()
	updated, err := s.Store.Invitations().ResetInvitation(
		ctx, invitationID, cryptox.FingerprintToken(token), now.Add(InvitationTTL), now,
	)
	if err != nil {
		return CreateResult{}, err
	}
	if !updated {
		return CreateResult{}, ErrInvitationNotFound
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		return CreateResult{}, err
	}

	delivered := s.dispatchInvitation(ctx, inv, token)

	log.Info("invitation reset",
		slog.String("invitation_id", inv.ID),
		slog.Bool("delivered", delivered),
	)

	return CreateResult{Invitation: inv, Token: token, Delivered: delivered}, nil
}

// ListPendingInvitations returns a team's invitations that are still in
// flight, joined with inviter details.
func (s *InvitationService) ListPendingInvitations(ctx context.Context, teamID string) ([]domain.PendingInvitation, error) {
	if teamID == "" {
		return nil, ErrInvalidInvitationRequest
	}
	return s.Store.Invitations().ListPendingByTeam(ctx, teamID)
}

// dispatchInvitation sends the invitation email. Delivery failure is a soft
// outcome: the invitation already exists and is the source of truth.
func (s *InvitationService) dispatchInvitation(ctx context.Context, inv domain.Invitation, token string) bool {
	log := slogx.FromContext(ctx)

	invitedByName := inv.InvitedBy
	if inviter, err := s.Store.Users().GetUserByID(ctx, inv.InvitedBy); err == nil {
		invitedByName = inviter.Email
	}

	err := s.Mailer.SendInvitation(ctx, mail.Invitation{
		Email:         inv.Email,
		Role:          string(inv.Role),
		InvitationURL: s.invitationURL(token),
		InvitedByName: invitedByName,
		TeamName:      inv.TeamID,
	})
	if err != nil {
		log.Warn("invitation email delivery failed, manual follow-up required",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

func (s *InvitationService) invitationURL(token string) string {
	return fmt.Sprintf("%s/invitation?token=%s", s.BaseURL, token)
}
