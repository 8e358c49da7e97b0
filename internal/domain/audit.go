package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // What action (transfer.create, transfer.verify, etc.)
	ResourceType string // Type of resource (transfer, account)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate AuditAction = "account.create"

	AuditActionTransferCreate  AuditAction = "transfer.create"
	AuditActionTransferVerify  AuditAction = "transfer.verify"
	AuditActionTransferStatus  AuditAction = "transfer.status"
	AuditActionTransferSettle  AuditAction = "transfer.settle"
	AuditActionTransferLockout AuditAction = "transfer.lockout"
)

// AuditStatus is the outcome recorded with an audit entry. Entries are
// written in the same transaction as the change, so only committed changes
// are ever recorded.
type AuditStatus string

const AuditStatusSuccess AuditStatus = "success"

// SystemActor is recorded when no authenticated user drove the action.
const SystemActor = "system"

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// TransferAuditState is the audit snapshot of a transfer. It omits the
// verification code.
func TransferAuditState(t *Transfer) JSON {
	if t == nil {
		return nil
	}
	state := JSON{
		"status":   string(t.Status),
		"verified": t.Verified,
		"amount":   t.Amount.String(),
		"currency": t.Currency,
	}
	if t.ApprovedAt != nil {
		state["approved_at"] = t.ApprovedAt.UTC().Format(time.RFC3339Nano)
	}
	if t.SettledBy != "" {
		state["settled_by"] = string(t.SettledBy)
	}
	return state
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
