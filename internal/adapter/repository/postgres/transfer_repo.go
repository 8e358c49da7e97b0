package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/postgres/generated"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Create inserts a transfer within a transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transfer) error {
	params := generated.CreateTransferParams{
		ID:               t.ID,
		SenderID:         t.SenderID,
		SenderEmail:      t.SenderEmail,
		SenderAccountID:  t.SenderAccountID,
		RecipientName:    t.Recipient.Name,
		RecipientEmail:   t.Recipient.Email,
		RecipientAccount: t.Recipient.AccountNumber,
		RecipientBank:    t.Recipient.BankName,
		Kind:             string(t.Kind()),
		Amount:           decimalToNumeric(t.Amount),
		Currency:         t.Currency,
		Category:         string(t.Category),
		TransferDate:     timeToPgDate(t.TransferDate),
		Reference:        t.Reference,
		Status:           string(t.Status),
		VerificationCode: t.VerificationCode,
		Verified:         t.Verified,
		SettledBy:        string(t.SettledBy),
		CreatedAt:        timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(t.UpdatedAt),
		ApprovedAt:       optionalTimestamptz(t.ApprovedAt),
	}

	switch rt := t.Routing.(type) {
	case domain.DomesticRouting:
		params.BankAddress = rt.BankAddress
		params.BranchCode = rt.BranchCode
		params.RoutingNumber = rt.RoutingNumber
	case domain.InternationalRouting:
		params.BankAddress = rt.BankAddress
		params.BranchCode = rt.BranchCode
		params.SwiftCode = rt.SWIFT
		params.Iban = rt.IBAN
		params.Country = rt.Country
	}

	return queriesFor(tx).CreateTransfer(ctx, params)
}

// GetByID retrieves a transfer including its verification code. Callers are
// responsible for redacting it before it leaves the service.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

// List returns transfers newest first. The verification code column is never read.
func (r *TransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfers(ctx, generated.ListTransfersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, listRowToTransfer(row))
	}

	return transfers, nil
}

// ListSettleable returns verified Pending transfers last updated at or before cutoff.
func (r *TransferRepository) ListSettleable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListSettleableTransfers(ctx, generated.ListSettleableTransfersParams{
		Cutoff:     timeToPgTimestamptz(cutoff),
		BatchLimit: int32(limit),
	})
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, &domain.Transfer{
			ID:        row.ID,
			Status:    domain.TransferStatusPending,
			Verified:  true,
			UpdatedAt: row.UpdatedAt.Time,
		})
	}

	return transfers, nil
}

// CompareAndSwapStatus applies change in one conditional UPDATE. When no row
// matches the guard the stored transfer was moved by someone else.
func (r *TransferRepository) CompareAndSwapStatus(ctx context.Context, tx usecase.Transaction, id string, expected domain.TransferStatus, change domain.StatusChange) (*domain.Transfer, error) {
	row, err := queriesFor(tx).CompareAndSwapTransferStatus(ctx, generated.CompareAndSwapTransferStatusParams{
		NewStatus:       string(change.To),
		MarkVerified:    change.MarkVerify,
		ClearCode:       change.ClearCode,
		ApprovedAt:      optionalTimestamptz(change.ApprovedAt),
		SettledBy:       string(change.SettledBy),
		UpdatedAt:       timeToPgTimestamptz(change.UpdatedAt),
		ID:              id,
		ExpectedStatus:  string(expected),
		RequireVerified: change.RequireVerified,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusConflict
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:              row.ID,
		SenderID:        row.SenderID,
		SenderEmail:     row.SenderEmail,
		SenderAccountID: row.SenderAccountID,
		Recipient: domain.Recipient{
			Name:          row.RecipientName,
			Email:         row.RecipientEmail,
			AccountNumber: row.RecipientAccount,
			BankName:      row.RecipientBank,
		},
		Routing: routingFromColumns(domain.TransferKind(row.Kind), routingColumns{
			bankAddress:   row.BankAddress,
			branchCode:    row.BranchCode,
			routingNumber: row.RoutingNumber,
			swift:         row.SwiftCode,
			iban:          row.Iban,
			country:       row.Country,
		}),
		Amount:           numericToDecimal(row.Amount),
		Currency:         row.Currency,
		Category:         domain.TransferCategory(row.Category),
		TransferDate:     pgDateToTime(row.TransferDate),
		Reference:        row.Reference,
		Status:           domain.TransferStatus(row.Status),
		VerificationCode: row.VerificationCode,
		Verified:         row.Verified,
		SettledBy:        domain.SettlementTrigger(row.SettledBy),
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
		ApprovedAt:       timestamptzPtr(row.ApprovedAt),
	}
}

func listRowToTransfer(row generated.ListTransfersRow) *domain.Transfer {
	return rowToTransfer(generated.Transfer{
		ID:               row.ID,
		SenderID:         row.SenderID,
		SenderEmail:      row.SenderEmail,
		SenderAccountID:  row.SenderAccountID,
		RecipientName:    row.RecipientName,
		RecipientEmail:   row.RecipientEmail,
		RecipientAccount: row.RecipientAccount,
		RecipientBank:    row.RecipientBank,
		Kind:             row.Kind,
		BankAddress:      row.BankAddress,
		BranchCode:       row.BranchCode,
		RoutingNumber:    row.RoutingNumber,
		SwiftCode:        row.SwiftCode,
		Iban:             row.Iban,
		Country:          row.Country,
		Amount:           row.Amount,
		Currency:         row.Currency,
		Category:         row.Category,
		TransferDate:     row.TransferDate,
		Reference:        row.Reference,
		Status:           row.Status,
		Verified:         row.Verified,
		SettledBy:        row.SettledBy,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		ApprovedAt:       row.ApprovedAt,
	})
}

type routingColumns struct {
	bankAddress   string
	branchCode    string
	routingNumber string
	swift         string
	iban          string
	country       string
}

func routingFromColumns(kind domain.TransferKind, c routingColumns) domain.Routing {
	if kind == domain.TransferKindInternational {
		return domain.InternationalRouting{
			SWIFT:       c.swift,
			IBAN:        c.iban,
			Country:     c.country,
			BankAddress: c.bankAddress,
			BranchCode:  c.branchCode,
		}
	}

	return domain.DomesticRouting{
		BankAddress:   c.bankAddress,
		BranchCode:    c.branchCode,
		RoutingNumber: c.routingNumber,
	}
}
