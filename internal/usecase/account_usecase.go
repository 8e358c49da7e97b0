package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	clock       Clock
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		metrics:     metrics,
		clock:       systemClock,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID        string
	Type           string
	Number         string
	InitialBalance decimal.Decimal
}

func (in CreateAccountInput) validate() error {
	verr := &domain.ValidationError{}
	verr.Required("owner_id", in.OwnerID)
	verr.Required("type", in.Type)
	verr.Required("number", in.Number)
	if in.InitialBalance.IsNegative() {
		verr.Add("initial_balance", "must not be negative")
	}
	if !domain.HasMoneyScale(in.InitialBalance) {
		verr.Add("initial_balance", "must have at most two decimal places")
	}
	return verr.Err()
}

// CreateAccount opens an account with an opening balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := uc.clock()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		OwnerID:   strings.TrimSpace(input.OwnerID),
		Type:      strings.TrimSpace(input.Type),
		Number:    strings.TrimSpace(input.Number),
		Balance:   input.InitialBalance,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   account.ID,
			AggregateType: domain.AggregateTypeAccount,
			EventType:     domain.EventTypeAccountCreated,
			Payload: map[string]any{
				"account_id": account.ID,
				"owner_id":   account.OwnerID,
				"type":       account.Type,
				"balance":    account.Balance.String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       domain.ActorFromContext(ctx),
			Action:       string(domain.AuditActionAccountCreate),
			ResourceType: domain.AggregateTypeAccount,
			ResourceID:   account.ID,
			RequestID:    domain.RequestIDFromContext(ctx),
			AfterState:   domain.MarshalState(account),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID. Customers only see their own.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user, ok := domain.UserFromContext(ctx); ok && !user.Role.IsAdmin() && user.ID != account.OwnerID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// ListMine lists the accounts of the authenticated user.
func (uc *AccountUseCase) ListMine(ctx context.Context) ([]*domain.Account, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return uc.accountRepo.ListByOwner(ctx, user.ID)
}
