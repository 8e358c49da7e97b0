package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
)

// TransferUseCaseConfig wires the collaborators of a TransferUseCase.
type TransferUseCaseConfig struct {
	TxManager    TransactionManager
	Guard        *LedgerGuard
	TransferRepo TransferRepository
	OutboxRepo   OutboxRepository
	AuditRepo    AuditRepository
	IDGen        IDGenerator
	CodeGen      CodeGenerator
	Notifier     Notifier
	Scheduler    SettlementScheduler
	Limiter      AttemptLimiter
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	Clock        Clock

	// MaxVerifyAttempts fails a transfer after this many wrong codes. Zero
	// disables the lockout.
	MaxVerifyAttempts int

	// NotifyOverrideTo redirects every verification email when set.
	NotifyOverrideTo string
}

// TransferUseCase drives a transfer through its lifecycle.
type TransferUseCase struct {
	transitioner

	guard          *LedgerGuard
	codeGen        CodeGenerator
	notifier       Notifier
	scheduler      SettlementScheduler
	limiter        AttemptLimiter
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	clock          Clock
	maxAttempts    int64
	notifyOverride string

	dispatches sync.WaitGroup
}

func NewTransferUseCase(cfg TransferUseCaseConfig) *TransferUseCase {
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock
	}

	return &TransferUseCase{
		transitioner: transitioner{
			txManager:    cfg.TxManager,
			transferRepo: cfg.TransferRepo,
			outboxRepo:   cfg.OutboxRepo,
			auditRepo:    cfg.AuditRepo,
			idGen:        cfg.IDGen,
		},
		guard:          cfg.Guard,
		codeGen:        cfg.CodeGen,
		notifier:       cfg.Notifier,
		scheduler:      cfg.Scheduler,
		limiter:        cfg.Limiter,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		clock:          clock,
		maxAttempts:    int64(cfg.MaxVerifyAttempts),
		notifyOverride: cfg.NotifyOverrideTo,
	}
}

// CreateTransferInput is a transfer request on behalf of an authenticated sender.
type CreateTransferInput struct {
	SenderID    string
	SenderEmail string
	Request     domain.TransferRequest
}

// Create validates the request, debits the sender's settlement account and
// stores the transfer as PendingVerification. The verification code is sent
// after commit and never returned.
func (uc *TransferUseCase) Create(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	start := time.Now()

	if input.SenderID == "" {
		return nil, domain.ErrUnauthorized
	}

	req := input.Request
	req.Normalize()
	if err := req.Validate(); err != nil {
		uc.recordError(err)
		return nil, err
	}

	code, err := uc.codeGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	now := uc.clock()
	transfer := &domain.Transfer{
		ID:               uc.idGen.Generate(),
		SenderID:         input.SenderID,
		SenderEmail:      input.SenderEmail,
		Recipient:        req.Recipient,
		Routing:          req.Routing,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Category:         req.Category,
		TransferDate:     req.TransferDate,
		Reference:        req.Reference,
		Status:           domain.TransferStatusPendingVerification,
		VerificationCode: code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.guard.ReserveAndDebit(txCtx, tx, input.SenderID, transfer.Amount, now)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}
	transfer.SenderAccountID = account.ID

	if err := uc.transferRepo.Create(txCtx, tx, transfer); err != nil {
		uc.recordError(err)
		return nil, err
	}

	if err := uc.emit(txCtx, tx, transfer, domain.EventTypeTransferCreated, now); err != nil {
		return nil, err
	}

	if err := uc.audit(ctx, txCtx, tx, domain.AuditActionTransferCreate, nil, transfer, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		amountFloat, _ := transfer.Amount.Float64()
		uc.metrics.TransferAmount.Observe(amountFloat)
	}

	uc.logger.Info().
		Str("transfer_id", transfer.ID).
		Str("account_id", account.ID).
		Str("amount", transfer.Amount.String()).
		Str("kind", string(transfer.Kind())).
		Msg("transfer created")

	uc.dispatchCode(ctx, transfer, code)

	return transfer.Redacted(), nil
}

// Verify consumes the verification code of a PendingVerification transfer,
// moving it to Pending and arming its delayed settlement.
func (uc *TransferUseCase) Verify(ctx context.Context, id, code string) (*domain.Transfer, error) {
	current, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := current.CheckVerifiable(); err != nil {
		return nil, err
	}

	if !current.MatchCode(code) {
		return nil, uc.rejectCode(ctx, current)
	}

	updated, err := uc.apply(ctx, id, domain.TransferStatusPendingVerification,
		domain.VerifyChange(uc.clock()), domain.AuditActionTransferVerify, current)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			// Lost the race against another verify or a lockout.
			return nil, domain.ErrInvalidState
		}
		return nil, err
	}

	if uc.limiter != nil {
		if err := uc.limiter.Reset(ctx, id); err != nil {
			uc.logger.Warn().Err(err).Str("transfer_id", id).Msg("failed to reset verification attempts")
		}
	}

	if uc.metrics != nil {
		uc.metrics.TransfersVerified.Inc()
	}

	if uc.scheduler != nil {
		uc.scheduler.Schedule(id)
	}

	uc.logger.Info().Str("transfer_id", id).Msg("transfer verified")

	return updated.Redacted(), nil
}

// rejectCode counts a wrong code and fails the transfer once the attempt
// limit is reached.
func (uc *TransferUseCase) rejectCode(ctx context.Context, current *domain.Transfer) error {
	if uc.metrics != nil {
		uc.metrics.VerificationFailures.Inc()
	}

	if uc.limiter == nil || uc.maxAttempts <= 0 {
		return domain.ErrInvalidCode
	}

	count, err := uc.limiter.RecordFailure(ctx, current.ID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("transfer_id", current.ID).Msg("failed to record verification attempt")
		return domain.ErrInvalidCode
	}
	if count < uc.maxAttempts {
		return domain.ErrInvalidCode
	}

	_, err = uc.apply(ctx, current.ID, domain.TransferStatusPendingVerification,
		domain.LockoutChange(uc.clock()), domain.AuditActionTransferLockout, current)
	switch {
	case errors.Is(err, domain.ErrStatusConflict):
		return domain.ErrInvalidCode
	case err != nil:
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersFailed.WithLabelValues(string(domain.SettlementTriggerLockout)).Inc()
	}

	uc.logger.Warn().
		Str("transfer_id", current.ID).
		Int64("attempts", count).
		Msg("transfer failed after too many verification attempts")

	return domain.ErrVerificationAttemptsExceeded
}

// UpdateStatus settles a verified Pending transfer as Approved or Failed.
func (uc *TransferUseCase) UpdateStatus(ctx context.Context, id string, target domain.TransferStatus) (*domain.Transfer, error) {
	if target != domain.TransferStatusApproved && target != domain.TransferStatusFailed {
		return nil, fmt.Errorf("%w: %q (allowed: %s, %s)", domain.ErrInvalidTarget, target,
			domain.TransferStatusApproved, domain.TransferStatusFailed)
	}

	current, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := current.CheckSettleable(); err != nil {
		return nil, err
	}

	change := domain.SettleChange(target, domain.SettlementTriggerAdmin, uc.clock())
	updated, err := uc.apply(ctx, id, domain.TransferStatusPending, change, domain.AuditActionTransferStatus, current)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, err
	}

	if uc.metrics != nil {
		trigger := string(domain.SettlementTriggerAdmin)
		if target == domain.TransferStatusApproved {
			uc.metrics.TransfersSettled.WithLabelValues(trigger).Inc()
		} else {
			uc.metrics.TransfersFailed.WithLabelValues(trigger).Inc()
		}
	}

	uc.logger.Info().
		Str("transfer_id", id).
		Str("status", string(updated.Status)).
		Str("actor", domain.ActorFromContext(ctx)).
		Msg("transfer status updated")

	return updated.Redacted(), nil
}

// GetByID returns a transfer. Customers only see their own transfers.
func (uc *TransferUseCase) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	t, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Redacted(), nil
}

// ListAll returns every transfer, newest first.
func (uc *TransferUseCase) ListAll(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	transfers, err := uc.transferRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Transfer, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, t.Redacted())
	}
	return out, nil
}

// WaitForDispatches blocks until every in-flight notification has finished.
func (uc *TransferUseCase) WaitForDispatches() {
	uc.dispatches.Wait()
}

// load fetches a transfer and hides other senders' transfers from customers.
func (uc *TransferUseCase) load(ctx context.Context, id string) (*domain.Transfer, error) {
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user, ok := domain.UserFromContext(ctx); ok && !user.Role.IsAdmin() && user.ID != t.SenderID {
		return nil, domain.ErrTransferNotFound
	}
	return t, nil
}

func (uc *TransferUseCase) dispatchCode(ctx context.Context, t *domain.Transfer, code string) {
	if uc.notifier == nil {
		return
	}

	to := t.SenderEmail
	if uc.notifyOverride != "" {
		to = uc.notifyOverride
	}
	if to == "" {
		uc.logger.Warn().Str("transfer_id", t.ID).Msg("no recipient for verification code")
		return
	}

	msg := domain.NewVerificationNotification(to, t, code)
	transferID := t.ID
	sendCtx := context.WithoutCancel(ctx)

	uc.dispatches.Add(1)
	go func() {
		defer uc.dispatches.Done()

		ctx, cancel := context.WithTimeout(sendCtx, DefaultNotificationTimeout)
		defer cancel()

		if err := uc.notifier.Send(ctx, msg); err != nil {
			uc.logger.Error().
				Err(fmt.Errorf("%w: %w", domain.ErrDispatch, err)).
				Str("transfer_id", transferID).
				Msg("failed to send verification code")
			if uc.metrics != nil {
				uc.metrics.NotificationErrors.Inc()
			}
			return
		}

		if uc.metrics != nil {
			uc.metrics.NotificationsSent.Inc()
		}
		uc.logger.Debug().Str("transfer_id", transferID).Msg("verification code sent")
	}()
}

func (uc *TransferUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.TransferErrors.WithLabelValues(errorType(err)).Inc()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "internal"
	}
}
