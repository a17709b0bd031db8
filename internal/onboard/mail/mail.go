// Package mail delivers invitation emails. Delivery is best effort: the
// invitation record is the source of truth and a failed send never rolls an
// invitation back.
package mail

import "context"

// Message is a rendered email ready for a transport.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender is one delivery transport (SES, SMTP).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Invitation carries everything needed to render an invitation email.
type Invitation struct {
	Email         string
	Role          string
	InvitationURL string
	InvitedByName string
	TeamName      string
}
