package domain

import "errors"

var (
	// ErrValidation wraps bad input rejected before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is a state machine guard failure; state is unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized means the acting user is not the party the transition requires.
	ErrUnauthorized = errors.New("actor not permitted for this action")

	ErrWalletNotFound = errors.New("wallet not found")
	ErrWalletInactive = errors.New("wallet not active")
	ErrWalletExists   = errors.New("wallet already exists for seller")

	ErrOrderNotFound = errors.New("order not found")
	ErrTradeNotFound = errors.New("trade not found")
)
