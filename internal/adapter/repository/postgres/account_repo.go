package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/postgres/generated"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository on top of a pool or
// any other generated.DBTX.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts a new account within a transaction.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	row, err := queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		OwnerID:   account.OwnerID,
		Type:      account.Type,
		Number:    account.Number,
		Balance:   decimalToNumeric(account.Balance),
		Version:   account.Version,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return err
	}

	*account = *rowToAccount(row)

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// ListByOwner returns the accounts of ownerID, oldest first.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// FindByOwner returns the oldest account of ownerID whose type matches selector.
func (r *AccountRepository) FindByOwner(ctx context.Context, tx usecase.Transaction, ownerID string, selector domain.AccountSelector) (*domain.Account, error) {
	row, err := queriesFor(tx).FindOwnerAccountByType(ctx, generated.FindOwnerAccountByTypeParams{
		OwnerID:      ownerID,
		TypeContains: selector.TypeContains,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// DebitIfSufficient subtracts amount with a single guarded UPDATE. Concurrent
// debits serialize on the row lock and each re-evaluates the balance guard.
func (r *AccountRepository) DebitIfSufficient(ctx context.Context, tx usecase.Transaction, accountID string, amount decimal.Decimal, updatedAt time.Time) (*domain.Account, error) {
	queries := queriesFor(tx)

	row, err := queries.DebitAccountIfSufficient(ctx, generated.DebitAccountIfSufficientParams{
		Amount:    decimalToNumeric(amount),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
		ID:        accountID,
	})
	if err == nil {
		return rowToAccount(row), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row updated: either the account is gone or the guard rejected it.
	if _, lookupErr := queries.GetAccountByID(ctx, accountID); lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, lookupErr
	}

	return nil, domain.ErrInsufficientFunds
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Type:      row.Type,
		Number:    row.Number,
		Balance:   numericToDecimal(row.Balance),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
