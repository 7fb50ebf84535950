package services

import "errors"

// Business-rule errors surfaced to handlers, which map them to HTTP status
// codes with errors.Is. Anything else bubbling out of a service is treated as
// an unexpected persistence failure (500).
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrBelowMinimum       = errors.New("amount is below the platform minimum")
	ErrInvalidLockPeriod  = errors.New("lock period must be at least one month")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrInsufficientProfit = errors.New("insufficient staking profit")
	ErrNoEarnings         = errors.New("no referral earnings to withdraw")
	ErrNotFound           = errors.New("record not found")
	ErrNotOwned           = errors.New("record does not belong to this user")
	ErrNotCompleted       = errors.New("staking position is not completed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDuplicateTxID      = errors.New("transaction id already submitted")
)
