package ledger

import "errors"

var (
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrInsufficientSavings = errors.New("insufficient savings")
	ErrGoalAlreadyReached  = errors.New("goal already reached")
)
