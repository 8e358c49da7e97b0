package domain

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPendingVerification TransferStatus = "PendingVerification"
	TransferStatusPending             TransferStatus = "Pending"
	TransferStatusApproved            TransferStatus = "Approved"
	TransferStatusFailed              TransferStatus = "Failed"
)

// IsValid reports whether s is a known status.
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPendingVerification, TransferStatusPending, TransferStatusApproved, TransferStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusApproved || s == TransferStatusFailed
}

// TransferCategory classifies the purpose of a transfer.
type TransferCategory string

const (
	TransferCategoryPersonal TransferCategory = "Personal"
	TransferCategoryBusiness TransferCategory = "Business"
)

// IsValid reports whether c is a known category.
func (c TransferCategory) IsValid() bool {
	return c == TransferCategoryPersonal || c == TransferCategoryBusiness
}

// SettlementTrigger records which path moved a transfer out of Pending.
type SettlementTrigger string

const (
	SettlementTriggerAdmin    SettlementTrigger = "admin"
	SettlementTriggerTimer    SettlementTrigger = "timer"
	SettlementTriggerSweep    SettlementTrigger = "sweep"
	SettlementTriggerLockout  SettlementTrigger = "verification_lockout"
	SettlementTriggerExternal SettlementTrigger = "cron"
)

// Recipient identifies who receives the funds.
type Recipient struct {
	Name          string
	Email         string
	AccountNumber string
	BankName      string
}

// Transfer is a requested movement of funds from a sender's settlement
// account to a named recipient.
type Transfer struct {
	ID               string
	SenderID         string
	SenderEmail      string
	SenderAccountID  string
	Recipient        Recipient
	Routing          Routing
	Amount           decimal.Decimal
	Currency         string
	Category         TransferCategory
	TransferDate     time.Time
	Reference        string
	Status           TransferStatus
	VerificationCode string
	Verified         bool
	SettledBy        SettlementTrigger
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApprovedAt       *time.Time
}

// Kind returns the routing variant of the transfer.
func (t *Transfer) Kind() TransferKind {
	if t.Routing == nil {
		return TransferKindDomestic
	}
	return t.Routing.Kind()
}

// MatchCode compares the supplied code against the stored one after trimming
// both. An empty stored code never matches.
func (t *Transfer) MatchCode(supplied string) bool {
	stored := strings.TrimSpace(t.VerificationCode)
	if stored == "" {
		return false
	}
	supplied = strings.TrimSpace(supplied)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// CheckVerifiable returns the error Verify must report before comparing codes.
func (t *Transfer) CheckVerifiable() error {
	if t.Status != TransferStatusPendingVerification {
		return ErrInvalidState
	}
	if t.Verified {
		return ErrAlreadyVerified
	}
	return nil
}

// CheckSettleable reports whether an administrative or automatic settlement
// may act on the transfer.
func (t *Transfer) CheckSettleable() error {
	if !t.Verified || t.Status != TransferStatusPending {
		return ErrPreconditionFailed
	}
	return nil
}

// Redacted returns a copy without the verification code.
func (t *Transfer) Redacted() *Transfer {
	if t == nil {
		return nil
	}
	c := *t
	c.VerificationCode = ""
	if t.ApprovedAt != nil {
		at := *t.ApprovedAt
		c.ApprovedAt = &at
	}
	return &c
}

// StatusChange describes the mutation applied by a conditional status update.
type StatusChange struct {
	To         TransferStatus
	MarkVerify bool
	ClearCode  bool
	ApprovedAt *time.Time
	SettledBy  SettlementTrigger
	UpdatedAt  time.Time

	// RequireVerified additionally guards the update on verified = true.
	RequireVerified bool
}

// Permits reports whether the stored transfer satisfies the guard of c given
// the expected status.
func (c StatusChange) Permits(t *Transfer, expected TransferStatus) bool {
	if t.Status != expected {
		return false
	}
	return !c.RequireVerified || t.Verified
}

// Apply mutates t according to the change. Callers must have already matched
// the expected status.
func (c StatusChange) Apply(t *Transfer) {
	t.Status = c.To
	if c.MarkVerify {
		t.Verified = true
	}
	if c.ClearCode {
		t.VerificationCode = ""
	}
	if c.ApprovedAt != nil && t.ApprovedAt == nil {
		at := *c.ApprovedAt
		t.ApprovedAt = &at
	}
	if c.SettledBy != "" {
		t.SettledBy = c.SettledBy
	}
	t.UpdatedAt = c.UpdatedAt
}

// VerifyChange moves a transfer from PendingVerification to Pending and
// consumes its code.
func VerifyChange(now time.Time) StatusChange {
	return StatusChange{
		To:         TransferStatusPending,
		MarkVerify: true,
		ClearCode:  true,
		UpdatedAt:  now,
	}
}

// SettleChange moves a transfer out of Pending into target.
func SettleChange(target TransferStatus, trigger SettlementTrigger, now time.Time) StatusChange {
	change := StatusChange{
		To:              target,
		SettledBy:       trigger,
		UpdatedAt:       now,
		RequireVerified: true,
	}
	if target == TransferStatusApproved {
		change.ApprovedAt = &now
	}
	return change
}

// LockoutChange fails a transfer whose code was guessed too many times.
func LockoutChange(now time.Time) StatusChange {
	return StatusChange{
		To:        TransferStatusFailed,
		ClearCode: true,
		SettledBy: SettlementTriggerLockout,
		UpdatedAt: now,
	}
}
