package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts failed verification attempts per transfer. Counters
// expire after window so abandoned transfers do not leak keys.
type AttemptLimiter struct {
	client *redis.Client
	prefix string
	window time.Duration
}

// NewAttemptLimiter creates a new AttemptLimiter.
func NewAttemptLimiter(client *redis.Client, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client: client,
		prefix: "verify-attempts:",
		window: window,
	}
}

// RecordFailure increments the counter for transferID and returns the new value.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, transferID string) (int64, error) {
	key := l.prefix + transferID

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// Reset clears the counter after a successful verification.
func (l *AttemptLimiter) Reset(ctx context.Context, transferID string) error {
	return l.client.Del(ctx, l.prefix+transferID).Err()
}
