package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/dto"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// CronTokenHeader carries the shared secret of the external scheduler.
const CronTokenHeader = "X-Cron-Token"

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	SweepStale(ctx context.Context, trigger domain.SettlementTrigger) (usecase.SweepResult, error)
}

// SettlementHandler runs settlement sweeps on demand.
type SettlementHandler struct {
	settlementUC SettlementService
	cronToken    string
}

// NewSettlementHandler creates a new SettlementHandler. An empty cronToken
// disables the cron route.
func NewSettlementHandler(settlementUC SettlementService, cronToken string) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, cronToken: cronToken}
}

// Sweep runs one sweep for an administrator.
func (h *SettlementHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	h.sweep(w, r, domain.SettlementTriggerSweep)
}

// Cron runs one sweep for an external scheduler holding the cron token.
func (h *SettlementHandler) Cron(w http.ResponseWriter, r *http.Request) {
	if h.cronToken == "" {
		writeError(w, http.StatusNotFound, "not_found", "cron trigger is disabled")
		return
	}

	supplied := r.Header.Get(CronTokenHeader)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.cronToken)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid cron token")
		return
	}

	h.sweep(w, r, domain.SettlementTriggerExternal)
}

func (h *SettlementHandler) sweep(w http.ResponseWriter, r *http.Request, trigger domain.SettlementTrigger) {
	result, err := h.settlementUC.SweepStale(r.Context(), trigger)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{
		Trigger:     string(trigger),
		SweepResult: result,
	})
}
