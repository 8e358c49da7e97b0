package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/dto"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeDomainError maps err to a status and writes it. Field problems of a
// validation error are listed; internal failures are not described.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)

	resp := dto.ErrorResponse{Error: code, Message: err.Error()}
	if status == http.StatusInternalServerError {
		resp.Message = "internal server error"
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Message = domain.ErrValidation.Error()
		resp.Fields = verr.Fields
	}

	writeJSON(w, status, resp)
}

// mapDomainError maps domain errors to HTTP status codes and error codes.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrInvalidTarget):
		return http.StatusBadRequest, "invalid_target"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "insufficient_funds"
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusUnauthorized, "invalid_code"
	case errors.Is(err, domain.ErrVerificationAttemptsExceeded):
		return http.StatusLocked, "verification_locked"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound, "transfer_not_found"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account_not_found"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusConflict, "already_verified"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusConflict, "precondition_failed"
	case errors.Is(err, domain.ErrStatusConflict):
		return http.StatusConflict, "status_conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
