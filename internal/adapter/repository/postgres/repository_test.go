package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

var (
	accountColumns = []string{"id", "owner_id", "type", "number", "balance", "version", "created_at", "updated_at"}

	transferColumns = []string{
		"id", "sender_id", "sender_email", "sender_account_id",
		"recipient_name", "recipient_email", "recipient_account", "recipient_bank",
		"kind", "bank_address", "branch_code", "routing_number", "swift_code", "iban", "country",
		"amount", "currency", "category", "transfer_date", "reference",
		"status", "verification_code", "verified", "settled_by",
		"created_at", "updated_at", "approved_at",
	}

	repoTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBeginTx(readCommitted)
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func transferRow(status string, verified bool, approvedAt any) []any {
	return []any{
		"tr-1", "user-1", "sender@example.com", "acc-savings",
		"Jane Doe", "jane@example.com", "DE89370400440532013000", "Deutsche Bank",
		"international", "Taunusanlage 12", "", "", "DEUTDEFF", "DE89370400440532013000", "DE",
		"250.50", "EUR", "Business", repoTime, "invoice 7",
		status, "", verified, "timer",
		repoTime, repoTime, approvedAt,
	}
}

func TestAccountRepository_DebitIfSufficient(t *testing.T) {
	t.Run("debits", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("UPDATE accounts").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "acc-1").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("acc-1", "user-1", "Savings", "1000000002", "400", int64(2), repoTime, repoTime))

		repo := NewAccountRepository(pool)
		account, err := repo.DebitIfSufficient(context.Background(), tx, "acc-1", decimal.NewFromInt(100), repoTime)
		require.NoError(t, err)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(400)), "balance %s", account.Balance)
		assert.Equal(t, int64(2), account.Version)
		assertExpectations(t, pool)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("UPDATE accounts").WillReturnError(pgx.ErrNoRows)
		pool.ExpectQuery("FROM accounts WHERE id").
			WithArgs("acc-1").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("acc-1", "user-1", "Savings", "1000000002", "50", int64(1), repoTime, repoTime))

		repo := NewAccountRepository(pool)
		_, err := repo.DebitIfSufficient(context.Background(), tx, "acc-1", decimal.NewFromInt(100), repoTime)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assertExpectations(t, pool)
	})

	t.Run("missing account", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("UPDATE accounts").WillReturnError(pgx.ErrNoRows)
		pool.ExpectQuery("FROM accounts WHERE id").WillReturnError(pgx.ErrNoRows)

		repo := NewAccountRepository(pool)
		_, err := repo.DebitIfSufficient(context.Background(), tx, "acc-1", decimal.NewFromInt(100), repoTime)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAccountRepository_FindByOwner(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectQuery("ILIKE").WithArgs("user-1", "savings").WillReturnError(pgx.ErrNoRows)

	repo := NewAccountRepository(pool)
	_, err := repo.FindByOwner(context.Background(), tx, "user-1", domain.DefaultSettlementSelector())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assertExpectations(t, pool)
}

func TestTransferRepository_GetByID(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM transfers WHERE id").
		WithArgs("tr-1").
		WillReturnRows(pgxmock.NewRows(transferColumns).AddRow(transferRow("Approved", true, repoTime)...))
	pool.ExpectQuery("FROM transfers WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewTransferRepository(pool)
	transfer, err := repo.GetByID(context.Background(), "tr-1")
	require.NoError(t, err)

	assert.Equal(t, domain.TransferKindInternational, transfer.Kind())
	routing, ok := transfer.Routing.(domain.InternationalRouting)
	require.True(t, ok)
	assert.Equal(t, "DEUTDEFF", routing.SWIFT)
	assert.Equal(t, "DE", routing.Country)
	assert.True(t, transfer.Amount.Equal(decimal.RequireFromString("250.50")))
	assert.Equal(t, domain.TransferStatusApproved, transfer.Status)
	assert.Equal(t, domain.SettlementTriggerTimer, transfer.SettledBy)
	require.NotNil(t, transfer.ApprovedAt)
	assert.True(t, transfer.ApprovedAt.Equal(repoTime))

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
	assertExpectations(t, pool)
}

func TestTransferRepository_CompareAndSwapStatus(t *testing.T) {
	t.Run("applies change", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		change := domain.SettleChange(domain.TransferStatusApproved, domain.SettlementTriggerTimer, repoTime)
		pool.ExpectQuery("UPDATE transfers").
			WithArgs("Approved", false, false, pgxmock.AnyArg(), "timer", pgxmock.AnyArg(), "tr-1", "Pending", true).
			WillReturnRows(pgxmock.NewRows(transferColumns).AddRow(transferRow("Approved", true, repoTime)...))

		repo := NewTransferRepository(pool)
		transfer, err := repo.CompareAndSwapStatus(context.Background(), tx, "tr-1", domain.TransferStatusPending, change)
		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusApproved, transfer.Status)
		assertExpectations(t, pool)
	})

	t.Run("guard rejects", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("UPDATE transfers").WillReturnError(pgx.ErrNoRows)

		repo := NewTransferRepository(pool)
		_, err := repo.CompareAndSwapStatus(context.Background(), tx, "tr-1", domain.TransferStatusPendingVerification, domain.VerifyChange(repoTime))
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
	})

	t.Run("driver error is returned as is", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		boom := errors.New("connection reset")
		pool.ExpectQuery("UPDATE transfers").WillReturnError(boom)

		repo := NewTransferRepository(pool)
		_, err := repo.CompareAndSwapStatus(context.Background(), tx, "tr-1", domain.TransferStatusPending, domain.VerifyChange(repoTime))
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrStatusConflict)
	})
}

func TestTransferRepository_ListSettleable(t *testing.T) {
	pool := newMockPool(t)
	cutoff := repoTime.Add(-time.Hour)
	pool.ExpectQuery("SELECT id, updated_at FROM transfers").
		WithArgs(pgxmock.AnyArg(), int32(500)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "updated_at"}).
			AddRow("tr-1", cutoff.Add(-time.Minute)).
			AddRow("tr-2", cutoff))

	repo := NewTransferRepository(pool)
	transfers, err := repo.ListSettleable(context.Background(), cutoff, 500)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	for _, tr := range transfers {
		assert.Equal(t, domain.TransferStatusPending, tr.Status)
		assert.True(t, tr.Verified)
	}
	assertExpectations(t, pool)
}

func TestAuditRepository_CreateTx(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO audit_logs").
		WithArgs(pgxmock.AnyArg(), "admin-1", "transfer.status", "transfer", "tr-1", "req-1",
			[]byte(`{"status":"Pending"}`), []byte(`{"status":"Failed"}`), "success", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewAuditRepository(pool)
	log := &domain.AuditLog{
		UserID:       "admin-1",
		Action:       string(domain.AuditActionTransferStatus),
		ResourceType: domain.AggregateTypeTransfer,
		ResourceID:   "tr-1",
		RequestID:    "req-1",
		BeforeState:  domain.JSON{"status": "Pending"},
		AfterState:   domain.JSON{"status": "Failed"},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    repoTime,
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, log))
	assert.NotEmpty(t, log.ID)
	assertExpectations(t, pool)
}
