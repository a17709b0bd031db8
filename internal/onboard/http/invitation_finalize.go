package http

import (
	"encoding/json"
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationFinalizeHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationFinalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	user, err := h.InvitationService.FinalizeAccountCreation(ctx, r.PathValue("id"), req.Password)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
