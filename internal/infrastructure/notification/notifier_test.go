package notification

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func sampleNotification() domain.Notification {
	transfer := &domain.Transfer{
		ID:          "tr-1",
		SenderEmail: "sender@example.com",
		Amount:      decimal.NewFromInt(250),
		Currency:    "USD",
		Recipient:   domain.Recipient{Name: "Jane Doe"},
	}
	return domain.NewVerificationNotification("ops@example.com", transfer, "482913")
}

func TestSMTPNotifier_Send(t *testing.T) {
	sender := &fakeSender{}
	n := &SMTPNotifier{client: sender, from: "noreply@example.com"}

	require.NoError(t, n.Send(context.Background(), sampleNotification()))
	require.Len(t, sender.sent, 1)

	var buf bytes.Buffer
	_, err := sender.sent[0].WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "ops@example.com")
	assert.Contains(t, raw, "Your Transfer Verification Code")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "482913")
}

func TestSMTPNotifier_SendError(t *testing.T) {
	boom := errors.New("connection refused")
	n := &SMTPNotifier{client: &fakeSender{err: boom}, from: "noreply@example.com"}

	err := n.Send(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, boom)
}

func TestSMTPNotifier_InvalidRecipient(t *testing.T) {
	sender := &fakeSender{}
	n := &SMTPNotifier{client: sender, from: "noreply@example.com"}

	msg := sampleNotification()
	msg.To = "not an address"

	assert.Error(t, n.Send(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestLogNotifier_DoesNotLogCodeAtInfo(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf).Level(zerolog.InfoLevel))

	require.NoError(t, n.Send(context.Background(), sampleNotification()))
	assert.Contains(t, buf.String(), "ops@example.com")
	assert.NotContains(t, buf.String(), "482913")
}
