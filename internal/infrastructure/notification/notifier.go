// Package notification delivers verification codes by email.
package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier implements usecase.Notifier over SMTP.
type SMTPNotifier struct {
	client mailSender
	from   string
}

// NewSMTPNotifier creates an SMTPNotifier. Authentication is enabled only
// when a username is configured.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPNotifier{client: client, from: cfg.From}, nil
}

// Send delivers msg as a multipart text and HTML email.
func (n *SMTPNotifier) Send(ctx context.Context, msg domain.Notification) error {
	m, err := buildMessage(n.from, msg)
	if err != nil {
		return err
	}

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}

	return nil
}

func buildMessage(from string, msg domain.Notification) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	return m, nil
}

// LogNotifier writes notifications to the log instead of sending them. It is
// used when no SMTP relay is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs msg. The body, which carries the code, is only logged at debug level.
func (n *LogNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("notification not sent: smtp disabled")
	n.logger.Debug().Str("to", msg.To).Str("body", msg.TextBody).Msg("notification body")

	return nil
}
