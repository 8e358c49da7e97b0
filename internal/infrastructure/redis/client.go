// Package redis connects to the Redis instance backing idempotency keys and
// verification attempt counters.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const clientName = "transfer-service"

// NewClient parses redisURL and waits for the server to answer PING,
// retrying for up to connectTimeout. A zero connectTimeout pings once.
func NewClient(ctx context.Context, redisURL string, connectTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = clientName
	}

	client := redis.NewClient(opts)

	if err := ping(ctx, client, connectTimeout); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	if timeout <= 0 {
		return client.Ping(ctx).Err()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.MaxElapsedTime = timeout

	return backoff.RetryNotify(
		func() error { return client.Ping(ctx).Err() },
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("retry_in", next).Msg("redis not ready")
		},
	)
}
