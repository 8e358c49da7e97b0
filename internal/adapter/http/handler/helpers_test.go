package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/dto"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transfers?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/transfers?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	validation := &domain.ValidationError{}
	validation.Add("amount", "must be positive")

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", validation, http.StatusBadRequest},
		{"invalid target", fmt.Errorf("%w: %q", domain.ErrInvalidTarget, "Pending"), http.StatusBadRequest},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"invalid code", domain.ErrInvalidCode, http.StatusUnauthorized},
		{"attempts exceeded", domain.ErrVerificationAttemptsExceeded, http.StatusLocked},
		{"transfer not found", domain.ErrTransferNotFound, http.StatusNotFound},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict},
		{"already verified", domain.ErrAlreadyVerified, http.StatusConflict},
		{"precondition failed", domain.ErrPreconditionFailed, http.StatusConflict},
		{"status conflict", domain.ErrStatusConflict, http.StatusConflict},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	t.Run("lists validation fields", func(t *testing.T) {
		verr := &domain.ValidationError{}
		verr.Add("recipient_name", "is required")
		verr.Add("amount", "invalid amount")

		rr := httptest.NewRecorder()
		writeDomainError(rr, verr)

		var resp dto.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rr.Code != http.StatusBadRequest || len(resp.Fields) != 2 {
			t.Fatalf("unexpected response %d %+v", rr.Code, resp)
		}
	})

	t.Run("hides internal errors", func(t *testing.T) {
		rr := httptest.NewRecorder()
		writeDomainError(rr, errors.New("pq: connection refused at 10.0.0.5"))

		var resp dto.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Message != "internal server error" {
			t.Fatalf("internal detail leaked: %+v", resp)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad_request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad_request" || resp.Message != "detail" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
