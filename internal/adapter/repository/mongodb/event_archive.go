package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/rabbitmq"
)

// EventCollection is where archived transfer events are stored.
const EventCollection = "transfer_events"

// ArchivedEvent is the stored form of a relayed event.
type ArchivedEvent struct {
	ID            string         `bson:"_id"`
	AggregateID   string         `bson:"aggregate_id"`
	AggregateType string         `bson:"aggregate_type"`
	EventType     string         `bson:"event_type"`
	Payload       map[string]any `bson:"payload"`
	OccurredAt    time.Time      `bson:"occurred_at"`
	ArchivedAt    time.Time      `bson:"archived_at"`
}

type replacer interface {
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

// EventArchive persists relayed events. Saving the same event twice keeps a
// single document, so redelivered messages are harmless.
type EventArchive struct {
	collection replacer
	now        func() time.Time
}

// NewEventArchive creates an EventArchive in dbName.
func NewEventArchive(client *mongo.Client, dbName string) *EventArchive {
	return &EventArchive{
		collection: client.Database(dbName).Collection(EventCollection),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Save upserts msg keyed by its event ID.
func (a *EventArchive) Save(ctx context.Context, msg rabbitmq.Message) error {
	doc := ArchivedEvent{
		ID:            msg.ID,
		AggregateID:   msg.AggregateID,
		AggregateType: msg.AggregateType,
		EventType:     msg.EventType,
		Payload:       msg.Payload,
		OccurredAt:    msg.CreatedAt,
		ArchivedAt:    a.now(),
	}

	_, err := a.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to archive event %s: %w", msg.ID, err)
	}

	return nil
}
