package http

import (
	"encoding/json"
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationCreateHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	inviterID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || inviterID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	result, err := h.InvitationService.CreateInvitation(ctx, req.Email, req.Role, req.TeamID, inviterID)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	response := CreateInvitationResponse{
		Delivered: result.Delivered,
		Legacy:    result.Legacy,
	}
	if !result.Legacy {
		inv := toInvitationResponse(result.Invitation)
		response.Invitation = &inv
	}

	httpx.WriteJSON(w, http.StatusCreated, response)
}
