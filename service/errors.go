package service

import "errors"

// User-facing rejections. Batch jobs never return these; they count and
// continue. Skips (already credited today, unlock condition not met) are
// outcomes, not errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyActive     = errors.New("member already active")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidWallet     = errors.New("unknown wallet")
)
