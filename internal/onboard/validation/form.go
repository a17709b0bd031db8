package validation

// fieldRule pairs a clean transform with a format predicate for one form
// field. Fields without a rule get the generic required-field check only.
type fieldRule struct {
	clean    func(string) string
	validate func(value, field string) error
}

// fieldRules keys format validation off the form field name, so the same
// validator covers every field sharing a format (both phone fields, both
// email-shaped fields).
var fieldRules = map[string]fieldRule{
	"phone_number":            {clean: CleanPhoneInput, validate: ValidateAustralianPhone},
	"emergency_contact_phone": {clean: CleanPhoneInput, validate: ValidateAustralianPhone},
	"abn":                     {clean: CleanABNInput, validate: ValidateABN},
	"acn":                     {clean: CleanACNInput, validate: ValidateACN},
	"bsb":                     {clean: CleanBSBInput, validate: ValidateBSB},
	"billing_email":           {clean: CleanEmailInput, validate: ValidateEmailFormat},
}

// CleanFormData returns a copy of form with every known field's clean
// transform applied. Unknown fields pass through untouched.
func CleanFormData(form map[string]string) map[string]string {
	cleaned := make(map[string]string, len(form))
	for field, value := range form {
		if rule, ok := fieldRules[field]; ok && rule.clean != nil {
			cleaned[field] = rule.clean(value)
			continue
		}
		cleaned[field] = value
	}
	return cleaned
}

// ValidateFormData checks that every required field is present and, for fields
// with a format rule, well-formed. The form is expected to already be cleaned.
// All violations are returned so the caller can present them at once.
func ValidateFormData(form map[string]string, required []string) []FieldError {
	errs := RequiredFields(form, required)

	missing := make(map[string]struct{}, len(errs))
	for _, e := range errs {
		missing[e.Field] = struct{}{}
	}

	for _, field := range required {
		if _, skip := missing[field]; skip {
			continue
		}
		rule, ok := fieldRules[field]
		if !ok || rule.validate == nil {
			continue
		}
		if err := rule.validate(form[field], field); err != nil {
			if fe, ok := err.(FieldError); ok {
				errs = append(errs, fe)
			} else {
				errs = append(errs, FieldError{Field: field, Message: err.Error()})
			}
		}
	}
	return errs
}
