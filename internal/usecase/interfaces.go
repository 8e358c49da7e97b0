package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	// FindByOwner returns the first account of ownerID matching selector.
	FindByOwner(ctx context.Context, tx Transaction, ownerID string, selector domain.AccountSelector) (*domain.Account, error)
	// DebitIfSufficient subtracts amount in a single conditional write and
	// returns domain.ErrInsufficientFunds when the balance does not cover it.
	DebitIfSufficient(ctx context.Context, tx Transaction, accountID string, amount decimal.Decimal, updatedAt time.Time) (*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error)
	// ListSettleable returns verified Pending transfers not updated since cutoff.
	ListSettleable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error)
	// CompareAndSwapStatus applies change only while the stored status equals
	// expected, returning domain.ErrStatusConflict otherwise.
	CompareAndSwapStatus(ctx context.Context, tx Transaction, id string, expected domain.TransferStatus, change domain.StatusChange) (*domain.Transfer, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// CodeGenerator produces one-time verification codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Notifier delivers messages out of band. Failures never affect transfer state.
type Notifier interface {
	Send(ctx context.Context, msg domain.Notification) error
}

// SettlementScheduler arms the delayed settlement of a verified transfer.
type SettlementScheduler interface {
	Schedule(transferID string)
}

// AttemptLimiter counts failed verification attempts per transfer.
type AttemptLimiter interface {
	// RecordFailure increments the counter and returns the new count.
	RecordFailure(ctx context.Context, transferID string) (int64, error)
	Reset(ctx context.Context, transferID string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }
