package goals

import "errors"

var (
	ErrGoalNotFound         = errors.New("goal not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidTarget        = errors.New("target amount must be greater than zero")
	ErrTargetBelowSaved     = errors.New("target amount is below saved amount")
	ErrGoalNotMonetary      = errors.New("goal is not monetary")
	ErrGoalNotActive        = errors.New("goal is not active")
	ErrGoalAlreadyCompleted = errors.New("goal already completed")
)
