// Package validation holds the pure field validators applied to invitation
// form payloads. Each validator is an independent predicate returning nil when
// the value is valid, and each format has a matching Clean transform that is
// applied before validation and before storage.
package validation

import (
	"fmt"
	"strings"
)

// FieldError reports a single human-readable violation for one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// RequiredFields checks that every required field is present and non-blank
// after trimming. It returns the full list of violations rather than stopping
// at the first, so callers can present all errors at once.
func RequiredFields(form map[string]string, required []string) []FieldError {
	var errs []FieldError
	for _, field := range required {
		if strings.TrimSpace(form[field]) == "" {
			errs = append(errs, FieldError{Field: field, Message: "is required"})
		}
	}
	return errs
}
