package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
)

// SettlementUseCaseConfig wires the collaborators of a SettlementUseCase.
type SettlementUseCaseConfig struct {
	TxManager    TransactionManager
	TransferRepo TransferRepository
	OutboxRepo   OutboxRepository
	AuditRepo    AuditRepository
	IDGen        IDGenerator
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	Clock        Clock

	// StaleAfter is how long a verified transfer must sit in Pending before
	// a sweep settles it.
	StaleAfter time.Duration
	BatchSize  int
}

// SettlementUseCase approves verified transfers automatically.
type SettlementUseCase struct {
	transitioner

	metrics    *metrics.Metrics
	logger     zerolog.Logger
	clock      Clock
	staleAfter time.Duration
	batchSize  int
}

func NewSettlementUseCase(cfg SettlementUseCaseConfig) *SettlementUseCase {
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}

	return &SettlementUseCase{
		transitioner: transitioner{
			txManager:    cfg.TxManager,
			transferRepo: cfg.TransferRepo,
			outboxRepo:   cfg.OutboxRepo,
			auditRepo:    cfg.AuditRepo,
			idGen:        cfg.IDGen,
		},
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		clock:      clock,
		staleAfter: staleAfter,
		batchSize:  batchSize,
	}
}

// Settle approves the transfer if it is still verified and Pending. It
// returns domain.ErrStatusConflict when another path got there first.
func (uc *SettlementUseCase) Settle(ctx context.Context, id string, trigger domain.SettlementTrigger) (*domain.Transfer, error) {
	change := domain.SettleChange(domain.TransferStatusApproved, trigger, uc.clock())

	updated, err := uc.apply(ctx, id, domain.TransferStatusPending, change, domain.AuditActionTransferSettle, nil)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			uc.logger.Debug().
				Str("transfer_id", id).
				Str("trigger", string(trigger)).
				Msg("transfer no longer settleable")
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersSettled.WithLabelValues(string(trigger)).Inc()
	}

	uc.logger.Info().
		Str("transfer_id", id).
		Str("trigger", string(trigger)).
		Msg("transfer approved")

	return updated.Redacted(), nil
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Settled int `json:"settled"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SweepStale approves every verified Pending transfer whose last update is at
// least StaleAfter old. Individual failures are counted, not returned.
func (uc *SettlementUseCase) SweepStale(ctx context.Context, trigger domain.SettlementTrigger) (SweepResult, error) {
	start := time.Now()
	var result SweepResult

	cutoff := uc.clock().Add(-uc.staleAfter)
	candidates, err := uc.transferRepo.ListSettleable(ctx, cutoff, uc.batchSize)
	if err != nil {
		return result, err
	}
	result.Scanned = len(candidates)

	for _, t := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, err := uc.Settle(ctx, t.ID, trigger)
		switch {
		case err == nil:
			result.Settled++
		case errors.Is(err, domain.ErrStatusConflict):
			result.Skipped++
		default:
			result.Failed++
			uc.logger.Error().Err(err).Str("transfer_id", t.ID).Msg("failed to settle stale transfer")
		}
	}

	if uc.metrics != nil {
		uc.metrics.SweepRuns.Inc()
		uc.metrics.SweepCandidates.Observe(float64(result.Scanned))
		uc.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}

	if result.Scanned > 0 {
		uc.logger.Info().
			Int("scanned", result.Scanned).
			Int("settled", result.Settled).
			Int("skipped", result.Skipped).
			Int("failed", result.Failed).
			Str("trigger", string(trigger)).
			Msg("settlement sweep finished")
	}

	return result, nil
}
