package http

import (
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationListHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "team_id query parameter is required",
		})
		return
	}

	pending, err := h.InvitationService.ListPendingInvitations(ctx, teamID)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	response := ListInvitationsResponse{
		Invitations: make([]PendingInvitationResponse, 0, len(pending)),
	}
	for _, p := range pending {
		response.Invitations = append(response.Invitations, PendingInvitationResponse{
			InvitationResponse: toInvitationResponse(p.Invitation),
			InviterEmail:       p.InviterEmail,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
