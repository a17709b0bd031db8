package domain

import "time"

// User is an activated account. Accounts are only ever created through
// invitation finalization or bootstrap.
type User struct {
	ID           string
	Email        string
	Role         Role
	TeamID       string
	PasswordHash string

	// Profile holds the merged invitee + manager form data captured during
	// onboarding.
	Profile FormData

	CreatedAt time.Time
	UpdatedAt time.Time
}
