package http

import (
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

type InvitationValidateHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP resolves an opaque invitation token for an anonymous invitee. The
// response is deliberately thin: enough to render the onboarding form, nothing
// about the inviter or internal payloads.
func (h *InvitationValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token query parameter is required",
		})
		return
	}

	inv, err := h.InvitationService.ValidateToken(ctx, token)
	if err != nil {
		writeWorkflowError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, ValidateTokenResponse{
		Email:     inv.Email,
		Role:      string(inv.Role),
		Status:    string(inv.Status),
		Fields:    domain.FormFieldsForRole(inv.Role, domain.VisibilityPublic),
		ExpiresAt: inv.ExpiresAt,
	})
}
