package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Type      string          `json:"type"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		Type:      a.Type,
		Number:    a.Number,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// RecipientResponse is the receiving party of a transfer.
type RecipientResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

// RoutingResponse flattens both routing variants.
type RoutingResponse struct {
	BankAddress   string `json:"bank_address,omitempty"`
	BranchCode    string `json:"branch_code,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	SwiftCode     string `json:"swift_code,omitempty"`
	IBAN          string `json:"iban,omitempty"`
	Country       string `json:"country,omitempty"`
}

// TransferResponse represents a transfer in API responses. It never carries
// the verification code.
type TransferResponse struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"`
	SenderID        string            `json:"sender_id"`
	SenderAccountID string            `json:"sender_account_id"`
	Recipient       RecipientResponse `json:"recipient"`
	Routing         RoutingResponse   `json:"routing"`
	Amount          decimal.Decimal   `json:"amount"`
	Currency        string            `json:"currency"`
	TransferType    string            `json:"transfer_type"`
	TransferDate    string            `json:"transfer_date"`
	Reference       string            `json:"reference,omitempty"`
	Status          string            `json:"status"`
	Verified        bool              `json:"verified"`
	SettledBy       string            `json:"settled_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	resp := &TransferResponse{
		ID:              t.ID,
		Kind:            string(t.Kind()),
		SenderID:        t.SenderID,
		SenderAccountID: t.SenderAccountID,
		Recipient: RecipientResponse{
			Name:          t.Recipient.Name,
			Email:         t.Recipient.Email,
			AccountNumber: t.Recipient.AccountNumber,
			BankName:      t.Recipient.BankName,
		},
		Amount:       t.Amount,
		Currency:     t.Currency,
		TransferType: string(t.Category),
		Reference:    t.Reference,
		Status:       string(t.Status),
		Verified:     t.Verified,
		SettledBy:    string(t.SettledBy),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		ApprovedAt:   t.ApprovedAt,
	}
	if !t.TransferDate.IsZero() {
		resp.TransferDate = t.TransferDate.Format("2006-01-02")
	}

	switch r := t.Routing.(type) {
	case domain.DomesticRouting:
		resp.Routing = RoutingResponse{
			BankAddress:   r.BankAddress,
			BranchCode:    r.BranchCode,
			RoutingNumber: r.RoutingNumber,
		}
	case domain.InternationalRouting:
		resp.Routing = RoutingResponse{
			BankAddress: r.BankAddress,
			BranchCode:  r.BranchCode,
			SwiftCode:   r.SWIFT,
			IBAN:        r.IBAN,
			Country:     r.Country,
		}
	}

	return resp
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ListResponse wraps a page of results.
type ListResponse[T any] struct {
	Data   []T `json:"data"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SweepResponse reports one on-demand settlement sweep.
type SweepResponse struct {
	Trigger string `json:"trigger"`
	usecase.SweepResult
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
