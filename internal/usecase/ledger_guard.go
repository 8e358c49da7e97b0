package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

// LedgerGuard checks and debits the sender's designated settlement account.
type LedgerGuard struct {
	accountRepo AccountRepository
	selector    domain.AccountSelector
}

// NewLedgerGuard creates a LedgerGuard selecting accounts with selector.
func NewLedgerGuard(accountRepo AccountRepository, selector domain.AccountSelector) *LedgerGuard {
	return &LedgerGuard{
		accountRepo: accountRepo,
		selector:    selector,
	}
}

// ReserveAndDebit locates the owner's settlement account and subtracts amount
// from it. The balance check and the decrement are one conditional write, so
// concurrent debits against the same account cannot overdraw it.
func (g *LedgerGuard) ReserveAndDebit(ctx context.Context, tx Transaction, ownerID string, amount decimal.Decimal, now time.Time) (*domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	account, err := g.accountRepo.FindByOwner(ctx, tx, ownerID, g.selector)
	if err != nil {
		return nil, err
	}

	debited, err := g.accountRepo.DebitIfSufficient(ctx, tx, account.ID, amount, now)
	if err != nil {
		return nil, fmt.Errorf("debit account %s: %w", account.ID, err)
	}

	return debited, nil
}
