package usecase

import (
	"context"
	"time"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

// transitioner applies a conditional status update together with its outbox
// event and audit record in one transaction.
type transitioner struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
}

func (s *transitioner) apply(
	ctx context.Context,
	id string,
	expected domain.TransferStatus,
	change domain.StatusChange,
	action domain.AuditAction,
	before *domain.Transfer,
) (*domain.Transfer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := s.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	updated, err := s.transferRepo.CompareAndSwapStatus(txCtx, tx, id, expected, change)
	if err != nil {
		return nil, err
	}

	if err := s.emit(txCtx, tx, updated, domain.StatusEventType(updated.Status), change.UpdatedAt); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, txCtx, tx, action, before, updated, change.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *transitioner) emit(ctx context.Context, tx Transaction, t *domain.Transfer, eventType string, now time.Time) error {
	if s.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            s.idGen.Generate(),
		AggregateID:   t.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     eventType,
		Payload:       domain.TransferEventPayload(t),
		CreatedAt:     now,
		Published:     false,
	}
	return s.outboxRepo.Create(ctx, tx, event)
}

// audit records the transition. reqCtx carries the acting user and request ID.
func (s *transitioner) audit(
	reqCtx, txCtx context.Context,
	tx Transaction,
	action domain.AuditAction,
	before, after *domain.Transfer,
	now time.Time,
) error {
	if s.auditRepo == nil {
		return nil
	}

	auditLog := &domain.AuditLog{
		ID:           s.idGen.Generate(),
		UserID:       domain.ActorFromContext(reqCtx),
		Action:       string(action),
		ResourceType: domain.AggregateTypeTransfer,
		ResourceID:   after.ID,
		RequestID:    domain.RequestIDFromContext(reqCtx),
		BeforeState:  domain.TransferAuditState(before),
		AfterState:   domain.TransferAuditState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}
	return s.auditRepo.CreateTx(txCtx, tx, auditLog)
}
