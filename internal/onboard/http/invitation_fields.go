package http

import (
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	"github.com/agencydesk/onboard/pkg/httpx"
)

// InvitationFieldsHandler returns the field policy for a role so staff UIs can
// render forms without hardcoding the field lists.
type InvitationFieldsHandler struct{}

func (h *InvitationFieldsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "role query parameter must be client or team_member",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, FieldPolicyResponse{
		Role:     string(role),
		Public:   domain.FormFieldsForRole(role, domain.VisibilityPublic),
		Internal: domain.FormFieldsForRole(role, domain.VisibilityInternal),
	})
}
