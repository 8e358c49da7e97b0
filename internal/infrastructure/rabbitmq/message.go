package rabbitmq

import (
	"time"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

// Message is the JSON body of every published event.
type Message struct {
	ID            string         `json:"id"`
	AggregateID   string         `json:"aggregate_id"`
	AggregateType string         `json:"aggregate_type"`
	EventType     string         `json:"event_type"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewMessage converts an outbox event into its wire form.
func NewMessage(event *domain.OutboxEvent) Message {
	return Message{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	}
}
