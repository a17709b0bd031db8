package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	"github.com/agencydesk/onboard/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepMarksExpired(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	inviter := createInviter(t, st)

	stale, err := svc.CreateInvitation(ctx, "stale@nguyen.example", "client", "team-alpha", inviter.ID)
	require.NoError(t, err)

	// Push the record's expiry into the past
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = st.Invitations().ResetInvitation(
		ctx, stale.Invitation.ID, cryptox.FingerprintToken(token), now.Add(-time.Hour), now,
	)
	require.NoError(t, err)

	fresh, err := svc.CreateInvitation(ctx, "fresh@nguyen.example", "client", "team-alpha", inviter.ID)
	require.NoError(t, err)

	hk := NewHousekeepingService(st, slog.Default(), time.Hour)
	hk.Start()
	hk.Stop() // Start runs an immediate sweep; Stop waits for it

	inv, err := st.Invitations().GetInvitationByID(ctx, stale.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusExpired, inv.Status)

	inv, err = st.Invitations().GetInvitationByID(ctx, fresh.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendingInviteeResponse, inv.Status)
}
