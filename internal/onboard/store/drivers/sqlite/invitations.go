package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, token_hash, email, role, team_id, invited_by, status,
	invitee_form, manager_form, reviewed_by, expires_at, invitee_submitted_at,
	reviewed_at, completed_at, cancelled_at, account_user_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv           domain.Invitation
		inviteeForm   sql.NullString
		managerForm   sql.NullString
		reviewedBy    sql.NullString
		submittedAt   sql.NullTime
		reviewedAt    sql.NullTime
		completedAt   sql.NullTime
		cancelledAt   sql.NullTime
		accountUserID sql.NullString
	)

	err := row.Scan(
		&inv.ID, &inv.TokenHash, &inv.Email, &inv.Role, &inv.TeamID, &inv.InvitedBy,
		&inv.Status, &inviteeForm, &managerForm, &reviewedBy, &inv.ExpiresAt,
		&submittedAt, &reviewedAt, &completedAt, &cancelledAt, &accountUserID,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, err
	}

	if inv.InviteeForm, err = mapNullForm(inviteeForm); err != nil {
		return domain.Invitation{}, err
	}
	if inv.ManagerForm, err = mapNullForm(managerForm); err != nil {
		return domain.Invitation{}, err
	}
	inv.ReviewedBy = mapNullString(reviewedBy)
	inv.InviteeSubmittedAt = mapNullTimePtr(submittedAt)
	inv.ReviewedAt = mapNullTimePtr(reviewedAt)
	inv.CompletedAt = mapNullTimePtr(completedAt)
	inv.CancelledAt = mapNullTimePtr(cancelledAt)
	inv.AccountUserID = mapNullString(accountUserID)

	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	inviteeForm, err := mapFormNull(inv.InviteeForm)
	if err != nil {
		return err
	}
	managerForm, err := mapFormNull(inv.ManagerForm)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO invitations (
			id, token_hash, email, role, team_id, invited_by, status,
			invitee_form, manager_form, reviewed_by, expires_at, account_user_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TokenHash, inv.Email, string(inv.Role), inv.TeamID, inv.InvitedBy,
		string(inv.Status), inviteeForm, managerForm, mapStringNull(inv.ReviewedBy),
		inv.ExpiresAt, mapStringNull(inv.AccountUserID), inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) RecordInviteeSubmission(
	ctx context.Context,
	id string,
	form domain.FormData,
	at time.Time,
) (bool, error) {
	payload, err := mapFormNull(form)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET invitee_form = ?, invitee_submitted_at = ?, status = ?, updated_at = ?
		WHERE id = ? AND status = ? AND expires_at > ?`,
		payload, at, string(domain.StatusPendingManagerReview), at,
		id, string(domain.StatusPendingInviteeResponse), at,
	)
	if err != nil {
		return false, err
	}
	return rowChanged(res)
}

func (r *invitationsRepo) RecordManagerReview(
	ctx context.Context,
	id string,
	form domain.FormData,
	reviewedBy string,
	at time.Time,
) (bool, error) {
	payload, err := mapFormNull(form)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET manager_form = ?, reviewed_by = ?, reviewed_at = ?, status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		payload, reviewedBy, at, string(domain.StatusPendingManagerCompletion), at,
		id, string(domain.StatusPendingManagerReview),
	)
	if err != nil {
		return false, err
	}
	return rowChanged(res)
}

func (r *invitationsRepo) RecordCompletion(
	ctx context.Context,
	id, accountUserID string,
	at time.Time,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET account_user_id = ?, completed_at = ?, status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		accountUserID, at, string(domain.StatusCompleted), at,
		id, string(domain.StatusPendingManagerCompletion),
	)
	if err != nil {
		return false, err
	}
	return rowChanged(res)
}

func (r *invitationsRepo) RecordCancellation(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET cancelled_at = ?, status = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?, ?)`,
		at, string(domain.StatusCancelled), at, id,
		string(domain.StatusCompleted), string(domain.StatusCancelled), string(domain.StatusExpired),
	)
	if err != nil {
		return false, err
	}
	return rowChanged(res)
}

func (r *invitationsRepo) ResetInvitation(
	ctx context.Context,
	id, tokenHash string,
	expiresAt, at time.Time,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET token_hash = ?, expires_at = ?, status = ?,
			invitee_form = NULL, manager_form = NULL, reviewed_by = NULL,
			invitee_submitted_at = NULL, reviewed_at = NULL, completed_at = NULL,
			cancelled_at = NULL, account_user_id = NULL, updated_at = ?
		WHERE id = ?`,
		tokenHash, expiresAt, string(domain.StatusPendingInviteeResponse), at, id,
	)
	if err != nil {
		return false, err
	}
	return rowChanged(res)
}

func (r *invitationsRepo) ListPendingByTeam(ctx context.Context, teamID string) ([]domain.PendingInvitation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.token_hash, i.email, i.role, i.team_id, i.invited_by, i.status,
			i.invitee_form, i.manager_form, i.reviewed_by, i.expires_at, i.invitee_submitted_at,
			i.reviewed_at, i.completed_at, i.cancelled_at, i.account_user_id, i.created_at, i.updated_at,
			COALESCE(u.email, '')
		FROM invitations i
		LEFT JOIN users u ON u.id = i.invited_by
		WHERE i.team_id = ? AND i.status NOT IN (?, ?)
		ORDER BY i.created_at DESC`,
		teamID, string(domain.StatusCompleted), string(domain.StatusCancelled),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingInvitation
	for rows.Next() {
		var (
			inv           domain.Invitation
			inviteeForm   sql.NullString
			managerForm   sql.NullString
			reviewedBy    sql.NullString
			submittedAt   sql.NullTime
			reviewedAt    sql.NullTime
			completedAt   sql.NullTime
			cancelledAt   sql.NullTime
			accountUserID sql.NullString
			inviterEmail  string
		)
		err := rows.Scan(
			&inv.ID, &inv.TokenHash, &inv.Email, &inv.Role, &inv.TeamID, &inv.InvitedBy,
			&inv.Status, &inviteeForm, &managerForm, &reviewedBy, &inv.ExpiresAt,
			&submittedAt, &reviewedAt, &completedAt, &cancelledAt, &accountUserID,
			&inv.CreatedAt, &inv.UpdatedAt, &inviterEmail,
		)
		if err != nil {
			return nil, err
		}
		if inv.InviteeForm, err = mapNullForm(inviteeForm); err != nil {
			return nil, err
		}
		if inv.ManagerForm, err = mapNullForm(managerForm); err != nil {
			return nil, err
		}
		inv.ReviewedBy = mapNullString(reviewedBy)
		inv.InviteeSubmittedAt = mapNullTimePtr(submittedAt)
		inv.ReviewedAt = mapNullTimePtr(reviewedAt)
		inv.CompletedAt = mapNullTimePtr(completedAt)
		inv.CancelledAt = mapNullTimePtr(cancelledAt)
		inv.AccountUserID = mapNullString(accountUserID)

		out = append(out, domain.PendingInvitation{Invitation: inv, InviterEmail: inviterEmail})
	}
	return out, rows.Err()
}

func (r *invitationsRepo) MarkExpiredInvitations(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, updated_at = ?
		WHERE status = ? AND expires_at <= ?`,
		string(domain.StatusExpired), now,
		string(domain.StatusPendingInviteeResponse), now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func rowChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
