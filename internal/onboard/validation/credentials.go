package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CleanEmailInput trims whitespace and lowercases the address.
func CleanEmailInput(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ValidateEmailFormat checks the basic shape of an email address.
func ValidateEmailFormat(value, field string) error {
	if !emailPattern.MatchString(value) {
		return FieldError{Field: field, Message: "must be a valid email address"}
	}
	return nil
}

// ValidatePasswordStrength enforces the minimum password policy applied at
// account finalization: at least 8 characters with an upper, a lower, and a
// digit.
func ValidatePasswordStrength(value string) error {
	if len(value) < 8 {
		return FieldError{Field: "password", Message: "must be at least 8 characters"}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return FieldError{Field: "password", Message: "must contain an uppercase letter, a lowercase letter and a digit"}
	}
	return nil
}
