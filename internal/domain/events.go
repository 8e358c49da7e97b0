package domain

import "time"

// Event types
const (
	EventTypeTransferCreated  = "transfer.created"
	EventTypeTransferVerified = "transfer.verified"
	EventTypeTransferApproved = "transfer.approved"
	EventTypeTransferFailed   = "transfer.failed"
	EventTypeAccountCreated   = "account.created"
)

// Aggregate types
const (
	AggregateTypeTransfer = "transfer"
	AggregateTypeAccount  = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferEventPayload is the payload shared by all transfer lifecycle events.
func TransferEventPayload(t *Transfer) map[string]any {
	payload := map[string]any{
		"transfer_id":       t.ID,
		"sender_id":         t.SenderID,
		"account_id":        t.SenderAccountID,
		"amount":            t.Amount.String(),
		"currency":          t.Currency,
		"kind":              string(t.Kind()),
		"status":            string(t.Status),
		"verified":          t.Verified,
		"updated_at":        t.UpdatedAt.UTC().Format(time.RFC3339Nano),
		"recipient_name":    t.Recipient.Name,
		"recipient_account": t.Recipient.AccountNumber,
	}
	if t.SettledBy != "" {
		payload["settled_by"] = string(t.SettledBy)
	}
	if t.ApprovedAt != nil {
		payload["approved_at"] = t.ApprovedAt.UTC().Format(time.RFC3339Nano)
	}
	return payload
}

// StatusEventType maps a status reached by a transition to its event type.
func StatusEventType(s TransferStatus) string {
	switch s {
	case TransferStatusPending:
		return EventTypeTransferVerified
	case TransferStatusApproved:
		return EventTypeTransferApproved
	case TransferStatusFailed:
		return EventTypeTransferFailed
	default:
		return EventTypeTransferCreated
	}
}
