package service

import (
	"errors"
	"strings"

	"github.com/agencydesk/onboard/internal/onboard/validation"
)

var (
	ErrInvalidInvitationRequest = errors.New("invalid invitation request")
	ErrInvitationNotFound       = errors.New("invitation not found")

	// ErrTokenNotFound and ErrAlreadySubmitted are deliberately distinct: a
	// conditional-update miss against a record that has already advanced is a
	// different caller problem than a token that never existed.
	ErrTokenNotFound       = errors.New("invitation token not found")
	ErrTokenExpired        = errors.New("invitation token expired")
	ErrAlreadySubmitted    = errors.New("invitation has already been submitted")
	ErrInvitationCancelled = errors.New("invitation has been cancelled")

	// ErrInvalidState reports a transition attempted from the wrong state.
	ErrInvalidState = errors.New("invitation is not in the required state")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FormValidationError carries the complete list of field violations so the
// caller can present them all at once.
type FormValidationError struct {
	Violations []validation.FieldError
}

func (e *FormValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return "form validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the human-readable violation strings.
func (e *FormValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return msgs
}
