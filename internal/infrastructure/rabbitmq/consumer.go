package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the channel.
var ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// Handler processes one decoded message. Returning an error requeues it.
type Handler func(ctx context.Context, msg Message) error

type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consumer reads a queue with manual acknowledgements, one message at a time.
type Consumer struct {
	channel consumeChannel
	queue   string
	tag     string
	logger  zerolog.Logger
}

// NewConsumer creates a Consumer for queue.
func NewConsumer(ch *amqp.Channel, queue, tag string, logger zerolog.Logger) *Consumer {
	return &Consumer{channel: ch, queue: queue, tag: tag, logger: logger}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := c.channel.Consume(c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info().Str("queue", c.queue).Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.process(ctx, d, handle)
		}
	}
}

func (c *Consumer) process(ctx context.Context, d amqp.Delivery, handle Handler) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.Error().Err(err).Str("message_id", d.MessageId).Msg("dropping undecodable message")
		if err := d.Nack(false, false); err != nil {
			c.logger.Error().Err(err).Msg("failed to nack message")
		}
		return
	}

	if err := handle(ctx, msg); err != nil {
		c.logger.Error().Err(err).Str("event_id", msg.ID).Msg("handler failed, requeueing")
		if err := d.Nack(false, true); err != nil {
			c.logger.Error().Err(err).Msg("failed to nack message")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error().Err(err).Str("event_id", msg.ID).Msg("failed to ack message")
		return
	}

	c.logger.Debug().Str("event_id", msg.ID).Str("event_type", msg.EventType).Msg("message processed")
}
