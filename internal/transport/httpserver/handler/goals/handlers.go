package goals

import (
	"context"

	goalsdomain "family-chores-go/internal/domain/goals"
	"family-chores-go/pkg/logger"
)

type Service interface {
	CreateGoal(ctx context.Context, parentID string, input goalsdomain.CreateInput) (*goalsdomain.Goal, error)
	UpdateGoal(ctx context.Context, parentID, goalID string, input goalsdomain.UpdateInput) (*goalsdomain.Goal, error)
	DeleteGoal(ctx context.Context, parentID, goalID string) error
	CompleteGoal(ctx context.Context, parentID, goalID string) (*goalsdomain.Goal, error)
	ListGoals(ctx context.Context, parentID string) ([]goalsdomain.Goal, error)
}

type Handlers struct {
	Goals Service
	log   logger.Logger
}

func New(goals Service, log logger.Logger) *Handlers {
	return &Handlers{
		Goals: goals,
		log:   log,
	}
}
