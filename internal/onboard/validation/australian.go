package validation

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^0[2-478][0-9]{8}$`)
	bsbPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	digitsOnly   = regexp.MustCompile(`[^0-9]`)
)

// abnWeights are the ABS weighting factors for the ABN check, applied after
// subtracting one from the leading digit. A valid ABN's weighted sum is
// divisible by 89.
var abnWeights = [11]int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

// acnWeights apply to the first eight digits of an ACN; the ninth digit is the
// complement of the weighted sum modulo ten.
var acnWeights = [8]int{8, 7, 6, 5, 4, 3, 2, 1}

// CleanPhoneInput strips whitespace and punctuation from a phone number and
// normalises a +61 country prefix to the domestic leading zero. Cleaning an
// already-clean number is a no-op.
func CleanPhoneInput(value string) string {
	cleaned := strings.TrimSpace(value)
	if strings.HasPrefix(cleaned, "+61") {
		cleaned = "0" + cleaned[3:]
	}
	return digitsOnly.ReplaceAllString(cleaned, "")
}

// ValidateAustralianPhone checks a cleaned value against Australian mobile and
// landline number shapes (ten digits, 02/03/04/07/08 prefixes).
func ValidateAustralianPhone(value, field string) error {
	if !phonePattern.MatchString(value) {
		return FieldError{Field: field, Message: "must be a valid Australian phone number"}
	}
	return nil
}

// CleanABNInput strips everything but digits.
func CleanABNInput(value string) string {
	return digitsOnly.ReplaceAllString(value, "")
}

// ValidateABN checks an eleven-digit Australian Business Number using the ABS
// modulus-89 checksum.
func ValidateABN(value, field string) error {
	invalid := FieldError{Field: field, Message: "must be a valid 11 digit ABN"}
	if len(value) != 11 {
		return invalid
	}
	sum := 0
	for i, r := range value {
		if r < '0' || r > '9' {
			return invalid
		}
		digit := int(r - '0')
		if i == 0 {
			digit--
		}
		sum += digit * abnWeights[i]
	}
	if sum%89 != 0 {
		return invalid
	}
	return nil
}

// CleanACNInput strips everything but digits.
func CleanACNInput(value string) string {
	return digitsOnly.ReplaceAllString(value, "")
}

// ValidateACN checks a nine-digit Australian Company Number using the ASIC
// complement check digit.
func ValidateACN(value, field string) error {
	invalid := FieldError{Field: field, Message: "must be a valid 9 digit ACN"}
	if len(value) != 9 {
		return invalid
	}
	sum := 0
	for i := range 8 {
		r := value[i]
		if r < '0' || r > '9' {
			return invalid
		}
		sum += int(r-'0') * acnWeights[i]
	}
	check := value[8]
	if check < '0' || check > '9' {
		return invalid
	}
	if (10-sum%10)%10 != int(check-'0') {
		return invalid
	}
	return nil
}

// CleanBSBInput strips the conventional xxx-xxx separator and any other
// punctuation.
func CleanBSBInput(value string) string {
	return digitsOnly.ReplaceAllString(value, "")
}

// ValidateBSB checks a cleaned six-digit bank-state-branch number.
func ValidateBSB(value, field string) error {
	if !bsbPattern.MatchString(value) {
		return FieldError{Field: field, Message: "must be a valid 6 digit BSB"}
	}
	return nil
}
