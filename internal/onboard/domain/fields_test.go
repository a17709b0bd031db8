package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormFieldsForRole(t *testing.T) {
	t.Run("client public fields", func(t *testing.T) {
		fields := FormFieldsForRole(RoleClient, VisibilityPublic)
		require.Contains(t, fields, "legal_first_name")
		require.Contains(t, fields, "business_name")
		require.NotContains(t, fields, "abn")
	})

	t.Run("team member internal fields", func(t *testing.T) {
		fields := FormFieldsForRole(RoleTeamMember, VisibilityInternal)
		require.Contains(t, fields, "bsb")
		require.Contains(t, fields, "bank_account_number")
		require.NotContains(t, fields, "phone_number")
	})

	t.Run("unknown role yields no fields", func(t *testing.T) {
		require.Empty(t, FormFieldsForRole(Role("ghost"), VisibilityPublic))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		fields := FormFieldsForRole(RoleClient, VisibilityPublic)
		fields[0] = "mutated"
		require.NotContains(t, FormFieldsForRole(RoleClient, VisibilityPublic), "mutated")
	})
}

// A field collected from the invitee must never also be a manager-only field,
// otherwise the submit path could overwrite internal data.
func TestFieldSetsAreDisjoint(t *testing.T) {
	for _, role := range []Role{RoleClient, RoleTeamMember} {
		public := FormFieldsForRole(role, VisibilityPublic)
		internal := FormFieldsForRole(role, VisibilityInternal)

		seen := make(map[string]struct{}, len(public))
		for _, f := range public {
			seen[f] = struct{}{}
		}
		for _, f := range internal {
			require.NotContains(t, seen, f, "role %s: field %s in both sets", role, f)
		}
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("client")
	require.NoError(t, err)
	require.Equal(t, RoleClient, role)

	role, err = ParseRole("team_member")
	require.NoError(t, err)
	require.Equal(t, RoleTeamMember, role)

	_, err = ParseRole("admin")
	require.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestStaffScopes(t *testing.T) {
	require.Equal(t, []string{"invite:read", "invite:write", "invite:review"}, RoleTeamMember.StaffScopes())
	require.Nil(t, RoleClient.StaffScopes())
}
