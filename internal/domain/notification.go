package domain

import (
	"fmt"
	"html"
)

// VerificationSubject is the subject line of verification code messages.
const VerificationSubject = "Your Transfer Verification Code"

// Notification is a message handed to the notification dispatcher.
type Notification struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// NewVerificationNotification builds the message that delivers a transfer's
// one-time code.
func NewVerificationNotification(to string, t *Transfer, code string) Notification {
	text := fmt.Sprintf(`Hello,

User %s has initiated a transfer (ID: %s) of %s %s to %s.
The one-time verification code is:

    %s

Please enter this code in the app to verify the transfer. If you did not expect this, please check immediately.

Thank you.
`, t.SenderEmail, t.ID, t.Amount.StringFixed(2), t.Currency, t.Recipient.Name, code)

	htmlBody := fmt.Sprintf(`<p>Hello,</p>
<p>User <strong>%s</strong> has initiated a transfer (ID: <strong>%s</strong>) of %s %s to %s.</p>
<p>The one-time verification code is:</p>
<h2>%s</h2>
<p>Please enter this code in the app to verify the transfer. If you did not expect this, please check immediately.</p>
<p>Thank you.</p>
`,
		html.EscapeString(t.SenderEmail),
		html.EscapeString(t.ID),
		t.Amount.StringFixed(2),
		html.EscapeString(t.Currency),
		html.EscapeString(t.Recipient.Name),
		html.EscapeString(code),
	)

	return Notification{
		To:       to,
		Subject:  VerificationSubject,
		TextBody: text,
		HTMLBody: htmlBody,
	}
}
