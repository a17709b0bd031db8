package http

import (
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationResetHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP reissues an invitation: new token, fresh expiry, all submitted
// payloads cleared. The old token stops working immediately.
func (h *InvitationResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	result, err := h.InvitationService.ResetInvitation(ctx, r.PathValue("id"))
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	inv := toInvitationResponse(result.Invitation)
	httpx.WriteJSON(w, http.StatusOK, CreateInvitationResponse{
		Invitation: &inv,
		Delivered:  result.Delivered,
	})
}
