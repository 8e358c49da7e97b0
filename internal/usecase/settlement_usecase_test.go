package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

func TestSettlementUseCase_Settle(t *testing.T) {
	h := newHarness(t)
	id := h.seedTransfer("tr-1", domain.TransferStatusPending, true, "", baseTime)
	h.clock.Set(baseTime.Add(time.Hour))

	transfer, err := h.settlement.Settle(context.Background(), id, domain.SettlementTriggerTimer)
	require.NoError(t, err)

	assert.Equal(t, domain.TransferStatusApproved, transfer.Status)
	assert.Equal(t, domain.SettlementTriggerTimer, transfer.SettledBy)
	require.NotNil(t, transfer.ApprovedAt)
	assert.Equal(t, baseTime.Add(time.Hour), *transfer.ApprovedAt)
	assert.Equal(t, []string{domain.EventTypeTransferApproved}, h.outbox.EventTypes())

	// A second trigger finds nothing to do.
	_, err = h.settlement.Settle(context.Background(), id, domain.SettlementTriggerSweep)
	require.ErrorIs(t, err, domain.ErrStatusConflict)
	assert.Equal(t, domain.SettlementTriggerTimer, h.transfers.Stored(id).SettledBy)
}

func TestSettlementUseCase_SettleSkipsIneligible(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.TransferStatus
		verified bool
	}{
		{name: "awaiting verification", status: domain.TransferStatusPendingVerification},
		{name: "pending but unverified", status: domain.TransferStatusPending},
		{name: "failed", status: domain.TransferStatusFailed, verified: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			id := h.seedTransfer("tr-1", tt.status, tt.verified, "", baseTime)

			_, err := h.settlement.Settle(context.Background(), id, domain.SettlementTriggerTimer)
			if !errors.Is(err, domain.ErrStatusConflict) {
				t.Fatalf("expected ErrStatusConflict, got %v", err)
			}
			if got := h.transfers.Stored(id).Status; got != tt.status {
				t.Fatalf("status changed to %s", got)
			}
		})
	}
}

func TestSettlementUseCase_SweepHonoursStaleThreshold(t *testing.T) {
	h := newHarness(t)
	id := h.seedTransfer("tr-1", domain.TransferStatusPending, true, "", baseTime)

	h.clock.Set(baseTime.Add(3599 * time.Second))
	result, err := h.settlement.SweepStale(context.Background(), domain.SettlementTriggerSweep)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, domain.TransferStatusPending, h.transfers.Stored(id).Status)

	settledAt := baseTime.Add(3601 * time.Second)
	h.clock.Set(settledAt)
	result, err = h.settlement.SweepStale(context.Background(), domain.SettlementTriggerSweep)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Settled)

	stored := h.transfers.Stored(id)
	assert.Equal(t, domain.TransferStatusApproved, stored.Status)
	assert.Equal(t, domain.SettlementTriggerSweep, stored.SettledBy)
	require.NotNil(t, stored.ApprovedAt)
	assert.Equal(t, settledAt, *stored.ApprovedAt)
}

func TestSettlementUseCase_SweepIgnoresOtherStates(t *testing.T) {
	h := newHarness(t)
	old := baseTime.Add(-48 * time.Hour)
	h.seedTransfer("tr-unverified", domain.TransferStatusPendingVerification, false, testCode, old)
	h.seedTransfer("tr-approved", domain.TransferStatusApproved, true, "", old)
	h.seedTransfer("tr-failed", domain.TransferStatusFailed, true, "", old)
	h.seedTransfer("tr-due", domain.TransferStatusPending, true, "", old)

	result, err := h.settlement.SweepStale(context.Background(), domain.SettlementTriggerExternal)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Settled)
	assert.Equal(t, domain.TransferStatusPendingVerification, h.transfers.Stored("tr-unverified").Status)
	assert.Equal(t, domain.TransferStatusFailed, h.transfers.Stored("tr-failed").Status)
	assert.Equal(t, domain.SettlementTriggerExternal, h.transfers.Stored("tr-due").SettledBy)
}

func TestSettlementUseCase_SweepCountsLostRaces(t *testing.T) {
	h := newHarness(t)
	old := baseTime.Add(-2 * time.Hour)
	h.seedTransfer("tr-1", domain.TransferStatusPending, true, "", old)
	h.seedTransfer("tr-2", domain.TransferStatusPending, true, "", old.Add(time.Minute))

	listed, err := h.transfers.ListSettleable(context.Background(), baseTime, 10)
	require.NoError(t, err)
	h.transfers.ListSettleableFunc = func(context.Context, time.Time, int) ([]*domain.Transfer, error) {
		return listed, nil
	}

	// tr-1 is settled by its timer after the sweep listed it.
	_, err = h.settlement.Settle(context.Background(), "tr-1", domain.SettlementTriggerTimer)
	require.NoError(t, err)

	result, err := h.settlement.SweepStale(context.Background(), domain.SettlementTriggerSweep)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Settled)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, domain.SettlementTriggerTimer, h.transfers.Stored("tr-1").SettledBy)
}

func TestSettlementUseCase_AdminAndTimerRace(t *testing.T) {
	for i := 0; i < 20; i++ {
		h := newHarness(t)
		id := h.seedTransfer("tr-1", domain.TransferStatusPending, true, "", baseTime)

		var (
			wg        sync.WaitGroup
			adminErr  error
			settleErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, adminErr = h.transfer.UpdateStatus(context.Background(), id, domain.TransferStatusFailed)
		}()
		go func() {
			defer wg.Done()
			_, settleErr = h.settlement.Settle(context.Background(), id, domain.SettlementTriggerTimer)
		}()
		wg.Wait()

		stored := h.transfers.Stored(id)
		switch {
		case adminErr == nil && settleErr != nil:
			assert.ErrorIs(t, settleErr, domain.ErrStatusConflict)
			assert.Equal(t, domain.TransferStatusFailed, stored.Status)
			assert.Nil(t, stored.ApprovedAt)
		case settleErr == nil && adminErr != nil:
			assert.ErrorIs(t, adminErr, domain.ErrPreconditionFailed)
			assert.Equal(t, domain.TransferStatusApproved, stored.Status)
		default:
			t.Fatalf("expected exactly one winner, admin=%v settle=%v", adminErr, settleErr)
		}
	}
}
