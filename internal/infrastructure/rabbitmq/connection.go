// Package rabbitmq relays transfer lifecycle events through a topic exchange.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// TransferBindingKey matches every transfer lifecycle event.
const TransferBindingKey = "transfer.#"

// Dial connects to the broker, retrying with exponential backoff for up to
// timeout. Zero dials once.
func Dial(ctx context.Context, url, connectionName string, timeout time.Duration) (*amqp.Connection, error) {
	cfg := amqp.Config{
		Properties: amqp.Table{"connection_name": connectionName},
	}

	var conn *amqp.Connection
	op := func() error {
		c, err := amqp.DialConfig(url, cfg)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	if timeout <= 0 {
		if err := op(); err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		return conn, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = timeout

	err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("rabbitmq not ready")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	return conn, nil
}

type topologyChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// DeclareExchange declares the durable topic exchange events are published to.
func DeclareExchange(ch topologyChannel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}

// DeclareQueue declares the exchange and a durable queue bound to it with key.
func DeclareQueue(ch topologyChannel, exchange, queue, key string) error {
	if err := DeclareExchange(ch, exchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	return nil
}
