package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a customer-owned account holding a non-negative balance.
type Account struct {
	ID        string
	OwnerID   string
	Type      string
	Number    string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanDebit reports whether amount fits within the current balance.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// AccountSelector chooses the designated settlement account among the
// accounts of one owner.
type AccountSelector struct {
	// TypeContains matches account types containing this text, case-insensitively.
	TypeContains string
}

// DefaultSettlementSelector picks the owner's savings account.
func DefaultSettlementSelector() AccountSelector {
	return AccountSelector{TypeContains: "savings"}
}

// Matches reports whether a satisfies the selector.
func (s AccountSelector) Matches(a *Account) bool {
	if s.TypeContains == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Type), strings.ToLower(s.TypeContains))
}
