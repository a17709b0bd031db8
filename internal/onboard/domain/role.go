package domain

import "errors"

// Role is the closed set of invitable roles.
type Role string

const (
	RoleClient     Role = "client"
	RoleTeamMember Role = "team_member"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleTeamMember:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// StaffScopes returns the token scopes granted to a staff account of the given
// role. Clients get no invitation scopes; they only ever act through an invite
// token.
func (r Role) StaffScopes() []string {
	switch r {
	case RoleTeamMember:
		return []string{"invite:read", "invite:write", "invite:review"}
	default:
		return nil
	}
}
