package domain

// FieldVisibility partitions invitation form fields between the two parties
// filling them in.
type FieldVisibility string

const (
	// VisibilityPublic fields are rendered to and collected from the invitee.
	VisibilityPublic FieldVisibility = "public"
	// VisibilityInternal fields are collected from the reviewing manager only
	// and never shown to the invitee.
	VisibilityInternal FieldVisibility = "internal"
)

// roleFields is the RoleFieldPolicy: a static table keyed by role and
// visibility. Adding a role means adding entries here, not code branches.
// Within a role the public and internal sets are disjoint.
var roleFields = map[Role]map[FieldVisibility][]string{
	RoleClient: {
		VisibilityPublic: {
			"legal_first_name",
			"legal_last_name",
			"phone_number",
			"business_name",
			"position_job_title",
			"preferred_contact_method",
		},
		VisibilityInternal: {
			"abn",
			"acn",
			"billing_email",
			"payment_terms",
			"account_manager_notes",
		},
	},
	RoleTeamMember: {
		VisibilityPublic: {
			"legal_first_name",
			"legal_last_name",
			"phone_number",
			"position_job_title",
			"emergency_contact_name",
			"emergency_contact_phone",
		},
		VisibilityInternal: {
			"employment_type",
			"start_date",
			"bsb",
			"bank_account_number",
			"award_classification",
		},
	},
}

// FormFieldsForRole returns the ordered field names collectible for a role at
// the given visibility. The returned slice is a copy; callers may mutate it.
func FormFieldsForRole(role Role, visibility FieldVisibility) []string {
	fields := roleFields[role][visibility]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
