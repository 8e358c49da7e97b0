package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultNotificationTimeout bounds a single verification code delivery.
	DefaultNotificationTimeout = 30 * time.Second

	// DefaultStaleAfter is how long a verified transfer waits in Pending
	// before the sweep settles it.
	DefaultStaleAfter = time.Hour

	// DefaultSweepBatchSize caps how many transfers one sweep settles.
	DefaultSweepBatchSize = 500

	// DefaultMaxVerifyAttempts is how many wrong codes fail a transfer.
	DefaultMaxVerifyAttempts = 5

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
