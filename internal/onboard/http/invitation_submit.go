package http

import (
	"encoding/json"
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationSubmitHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SubmitFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token is required",
		})
		return
	}

	inv, err := h.InvitationService.SubmitInviteeForm(ctx, req.Token, req.Form)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	// Echo back the thin view; the invitee never sees the full record.
	httpx.WriteJSON(w, http.StatusOK, ValidateTokenResponse{
		Email:     inv.Email,
		Role:      string(inv.Role),
		Status:    string(inv.Status),
		ExpiresAt: inv.ExpiresAt,
	})
}
