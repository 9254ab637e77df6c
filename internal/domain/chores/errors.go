package chores

import "errors"

var (
	ErrChoreNotFound     = errors.New("chore not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidReward     = errors.New("reward must not be negative")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidType       = errors.New("invalid chore type")
	ErrInvalidDueDate    = errors.New("invalid due date")
	ErrInvalidTransition = errors.New("invalid chore status transition")
	ErrNoAutoApplyGoal   = errors.New("no auto-apply goal")
)
