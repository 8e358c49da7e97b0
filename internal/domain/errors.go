package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrTransferNotFound = errors.New("transfer not found")

	// Verification errors
	ErrInvalidCode                  = errors.New("invalid verification code")
	ErrAlreadyVerified              = errors.New("transfer has already been verified")
	ErrInvalidState                 = errors.New("transfer is not pending verification")
	ErrVerificationAttemptsExceeded = errors.New("too many invalid verification attempts")

	// Administrative errors
	ErrPreconditionFailed = errors.New("transfer must be verified and pending")
	ErrInvalidTarget      = errors.New("invalid target status")

	// ErrStatusConflict is returned by a conditional status update whose
	// expected status no longer matches the stored one.
	ErrStatusConflict = errors.New("transfer status changed concurrently")

	// ErrDispatch wraps notification delivery failures. It never aborts a transfer.
	ErrDispatch = errors.New("notification dispatch failed")
)
