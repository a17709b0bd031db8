package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
)

var ErrNoTransport = errors.New("mail: no transport configured")

// Mailer renders invitation emails and tries the primary transport first,
// falling back to the legacy transport with the same token on any failure.
type Mailer struct {
	Primary Sender
	Legacy  Sender
	Logger  *slog.Logger
}

// SendInvitation delivers an invitation email. It returns an error only when
// every configured transport fails; the caller treats that as a soft warning,
// not a reason to roll back the invitation.
func (m *Mailer) SendInvitation(ctx context.Context, inv Invitation) error {
	msg := renderInvitation(inv)

	if m.Primary != nil {
		err := m.Primary.Send(ctx, msg)
		if err == nil {
			return nil
		}
		m.Logger.Warn("primary invitation email failed, trying legacy transport",
			"email", inv.Email, "error", err)
	}

	if m.Legacy != nil {
		if err := m.Legacy.Send(ctx, renderLegacyInvitation(inv)); err != nil {
			m.Logger.Error("legacy invitation email failed",
				"email", inv.Email, "error", err)
			return err
		}
		return nil
	}

	if m.Primary == nil {
		return ErrNoTransport
	}
	return errors.New("mail: all transports failed")
}

// SendLegacyInvitation delivers the bare legacy-shaped invite email used when
// the enhanced workflow is unavailable.
func (m *Mailer) SendLegacyInvitation(ctx context.Context, inv Invitation) error {
	msg := renderLegacyInvitation(inv)
	if m.Legacy != nil {
		return m.Legacy.Send(ctx, msg)
	}
	if m.Primary != nil {
		return m.Primary.Send(ctx, msg)
	}
	return ErrNoTransport
}

func renderInvitation(inv Invitation) Message {
	teamName := html.EscapeString(inv.TeamName)
	invitedBy := html.EscapeString(inv.InvitedByName)

	subject := fmt.Sprintf("You've been invited to join %s", inv.TeamName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
				<h2>You're invited</h2>
				<p>%s has invited you to join <strong>%s</strong> as a %s.</p>
				<p style="margin-top: 30px;">
					<a href="%s" style="background-color: #007bff; color: white; padding: 12px 30px; text-decoration: none; border-radius: 4px; display: inline-block;">
						Accept invitation
					</a>
				</p>
				<p style="margin-top: 20px; font-size: 14px; color: #666;">
					Or open this link: <a href="%s">%s</a>
				</p>
				<p style="margin-top: 30px; border-top: 1px solid #ddd; padding-top: 20px; font-size: 12px; color: #999;">
					This invitation expires in 72 hours. This email was generated automatically; please do not reply.
				</p>
			</div>
		</body>
		</html>
	`, invitedBy, teamName, inv.Role, inv.InvitationURL, inv.InvitationURL, inv.InvitationURL)

	textBody := fmt.Sprintf(
		"%s has invited you to join %s as a %s.\n\nAccept the invitation: %s\n\nThe link expires in 72 hours.",
		inv.InvitedByName, inv.TeamName, inv.Role, inv.InvitationURL,
	)

	return Message{To: inv.Email, Subject: subject, TextBody: textBody, HTMLBody: htmlBody}
}

// renderLegacyInvitation produces the plain email shape the legacy delivery
// path expects: email, role and a bare link, no team branding.
func renderLegacyInvitation(inv Invitation) Message {
	return Message{
		To:      inv.Email,
		Subject: "You have been invited",
		TextBody: fmt.Sprintf(
			"You have been invited as a %s.\n\nFollow this link to get started: %s\n",
			inv.Role, inv.InvitationURL,
		),
	}
}
