package ledger

import (
	"errors"

	"mealmatch/statemachine"
)

// Every validation failure is a returned value. Nothing in this package
// panics or throws across its boundary; handlers map these sentinels to
// user-facing messages.
var (
	ErrNoSession     = errors.New("no authenticated session")
	ErrEmptyItems    = errors.New("order must contain at least one item")
	ErrOrderNotFound = errors.New("order not found")
	ErrNotEditable   = errors.New("order can no longer be edited")
	ErrNotOwned      = errors.New("order belongs to another user")

	// Withdrawal rejections, each distinct and user-reportable.
	ErrInvalidAmount  = errors.New("withdrawal amount must be a positive number")
	ErrNoFunds        = errors.New("no funds available")
	ErrNoPayoutMethod = errors.New("no payout method configured")
	ErrExceedsBalance = errors.New("amount exceeds available balance")
)

// ErrInvalidTransition re-exports the state machine sentinel so callers can
// match rejections without importing the statemachine package.
var ErrInvalidTransition = statemachine.ErrInvalidTransition
