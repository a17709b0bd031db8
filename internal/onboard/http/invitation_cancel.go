package http

import (
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationCancelHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationCancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cancelledBy, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || cancelledBy == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	inv, err := h.InvitationService.CancelInvitation(ctx, r.PathValue("id"), cancelledBy)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}
