package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/dto"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Create(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	Verify(ctx context.Context, id, code string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, id string, target domain.TransferStatus) (*domain.Transfer, error)
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create debits the caller's settlement account and opens a transfer
// awaiting its emailed code.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req dto.CreateTransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	transferReq, err := req.ToDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	transfer, err := h.transferUC.Create(r.Context(), usecase.CreateTransferInput{
		SenderID:    user.ID,
		SenderEmail: user.Email,
		Request:     transferReq,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Verify checks the supplied code.
func (h *TransferHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_transfer_id", "")
		return
	}

	var req dto.VerifyTransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	transfer, err := h.transferUC.Verify(r.Context(), id, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// UpdateStatus applies an administrative Approved or Failed decision.
func (h *TransferHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_transfer_id", "")
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	transfer, err := h.transferUC.UpdateStatus(r.Context(), id, req.Target())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_transfer_id", "")
		return
	}

	transfer, err := h.transferUC.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// List lists every transfer, newest first.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))

	transfers, err := h.transferUC.ListAll(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.TransferResponse]{
		Data:   dto.TransfersFromDomain(transfers),
		Limit:  limit,
		Offset: offset,
	})
}
