package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from InvitationStatus
		to   InvitationStatus
		want bool
	}{
		{"invitee response to review", StatusPendingInviteeResponse, StatusPendingManagerReview, true},
		{"invitee response to expired", StatusPendingInviteeResponse, StatusExpired, true},
		{"invitee response to cancelled", StatusPendingInviteeResponse, StatusCancelled, true},
		{"review to completion", StatusPendingManagerReview, StatusPendingManagerCompletion, true},
		{"review to cancelled", StatusPendingManagerReview, StatusCancelled, true},
		{"completion to completed", StatusPendingManagerCompletion, StatusCompleted, true},
		{"completion to cancelled", StatusPendingManagerCompletion, StatusCancelled, true},

		{"no skipping review", StatusPendingInviteeResponse, StatusPendingManagerCompletion, false},
		{"no skipping straight to completed", StatusPendingInviteeResponse, StatusCompleted, false},
		{"no backwards move", StatusPendingManagerReview, StatusPendingInviteeResponse, false},
		{"review cannot expire", StatusPendingManagerReview, StatusExpired, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPendingInviteeResponse, false},
		{"expired is terminal", StatusExpired, StatusPendingManagerReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusExpired.Terminal())
	require.True(t, StatusCancelled.Terminal())

	require.False(t, StatusPendingInviteeResponse.Terminal())
	require.False(t, StatusPendingManagerReview.Terminal())
	require.False(t, StatusPendingManagerCompletion.Terminal())
}

func TestExpiredAt(t *testing.T) {
	now := time.Now().UTC()
	inv := Invitation{ExpiresAt: now}

	require.False(t, inv.ExpiredAt(now.Add(-time.Second)))
	require.False(t, inv.ExpiredAt(now))
	require.True(t, inv.ExpiredAt(now.Add(time.Second)))
}
