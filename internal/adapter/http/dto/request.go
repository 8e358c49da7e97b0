package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// transferDateLayout is accepted in addition to RFC 3339.
const transferDateLayout = "2006-01-02"

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	OwnerID        string          `json:"owner_id"`
	Type           string          `json:"type"`
	Number         string          `json:"number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:        r.OwnerID,
		Type:           r.Type,
		Number:         r.Number,
		InitialBalance: r.InitialBalance,
	}
}

// CreateTransferRequest represents a request to create a transfer. Kind
// selects which routing fields apply; when empty, a SWIFT code implies an
// international transfer.
type CreateTransferRequest struct {
	Kind             string          `json:"kind,omitempty"`
	RecipientName    string          `json:"recipient_name"`
	RecipientEmail   string          `json:"recipient_email,omitempty"`
	RecipientAccount string          `json:"recipient_account"`
	RecipientBank    string          `json:"recipient_bank"`
	BankAddress      string          `json:"bank_address,omitempty"`
	BranchCode       string          `json:"branch_code,omitempty"`
	RoutingNumber    string          `json:"routing_number,omitempty"`
	SwiftCode        string          `json:"swift_code,omitempty"`
	IBAN             string          `json:"iban,omitempty"`
	Country          string          `json:"country,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency,omitempty"`
	TransferType     string          `json:"transfer_type,omitempty"`
	TransferDate     string          `json:"transfer_date"`
	Reference        string          `json:"reference,omitempty"`
}

// ToDomain converts the payload into a transfer request. Problems that stop
// the conversion itself are reported as a *domain.ValidationError.
func (r *CreateTransferRequest) ToDomain() (domain.TransferRequest, error) {
	verr := &domain.ValidationError{}

	req := domain.TransferRequest{
		Recipient: domain.Recipient{
			Name:          strings.TrimSpace(r.RecipientName),
			Email:         r.RecipientEmail,
			AccountNumber: strings.TrimSpace(r.RecipientAccount),
			BankName:      strings.TrimSpace(r.RecipientBank),
		},
		Amount:    r.Amount,
		Currency:  r.Currency,
		Category:  domain.TransferCategory(r.TransferType),
		Reference: strings.TrimSpace(r.Reference),
	}

	kind := domain.TransferKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if kind == "" {
		kind = domain.TransferKindDomestic
		if strings.TrimSpace(r.SwiftCode) != "" {
			kind = domain.TransferKindInternational
		}
	}

	switch kind {
	case domain.TransferKindDomestic:
		req.Routing = domain.DomesticRouting{
			BankAddress:   r.BankAddress,
			BranchCode:    r.BranchCode,
			RoutingNumber: strings.TrimSpace(r.RoutingNumber),
		}
	case domain.TransferKindInternational:
		req.Routing = domain.InternationalRouting{
			SWIFT:       r.SwiftCode,
			IBAN:        r.IBAN,
			Country:     r.Country,
			BankAddress: r.BankAddress,
			BranchCode:  r.BranchCode,
		}
	default:
		verr.Add("kind", "must be domestic or international")
	}

	if date := strings.TrimSpace(r.TransferDate); date != "" {
		parsed, err := parseTransferDate(date)
		if err != nil {
			verr.Add("transfer_date", "must be YYYY-MM-DD or RFC 3339")
		}
		req.TransferDate = parsed
	}

	return req, verr.Err()
}

func parseTransferDate(s string) (time.Time, error) {
	if t, err := time.Parse(transferDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// VerifyTransferRequest carries the code the sender received.
type VerifyTransferRequest struct {
	Code string `json:"code"`
}

// UpdateStatusRequest asks for an administrative transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Target returns the requested status.
func (r *UpdateStatusRequest) Target() domain.TransferStatus {
	return domain.TransferStatus(strings.TrimSpace(r.Status))
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
