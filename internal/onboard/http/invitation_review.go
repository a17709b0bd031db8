package http

import (
	"encoding/json"
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationReviewHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationReviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	managerID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || managerID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	inv, err := h.InvitationService.CompleteManagerReview(ctx, r.PathValue("id"), req.Form, managerID)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}
