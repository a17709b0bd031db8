package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/pkg/httpx"
)

// writeWorkflowError maps service-layer errors onto HTTP responses. Every
// distinct failure kind gets its own error code so clients never have to parse
// description text.
func writeWorkflowError(w http.ResponseWriter, log *slog.Logger, err error) {
	var formErr *service.FormValidationError
	if errors.As(err, &formErr) {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "validation_failed",
			ErrorDescription: "One or more fields failed validation",
			Violations:       formErr.Messages(),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInvitationRequest):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid invitation parameters",
		})
	case errors.Is(err, service.ErrInvitationNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Invitation not found",
		})
	case errors.Is(err, service.ErrTokenNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:            "token_not_found",
			ErrorDescription: "No invitation matches this token",
		})
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteJSON(w, http.StatusGone, ErrorResponse{
			Error:            "token_expired",
			ErrorDescription: "This invitation has expired; ask your contact to resend it",
		})
	case errors.Is(err, service.ErrAlreadySubmitted):
		httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error:            "already_submitted",
			ErrorDescription: "This invitation has already been submitted",
		})
	case errors.Is(err, service.ErrInvitationCancelled):
		httpx.WriteJSON(w, http.StatusGone, ErrorResponse{
			Error:            "invitation_cancelled",
			ErrorDescription: "This invitation has been cancelled",
		})
	case errors.Is(err, service.ErrInvalidState):
		httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error:            "invalid_state",
			ErrorDescription: "Invitation is not in the required state for this operation",
		})
	default:
		log.Error("invitation workflow error", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Internal server error",
		})
	}
}
