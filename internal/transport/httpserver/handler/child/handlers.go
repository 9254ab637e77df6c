package child

import (
	"context"

	choresdomain "family-chores-go/internal/domain/chores"
	goalsdomain "family-chores-go/internal/domain/goals"
	notificationsdomain "family-chores-go/internal/domain/notifications"
	"family-chores-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type ChoreService interface {
	ListChildChores(ctx context.Context, childID string) ([]choresdomain.Chore, error)
	MarkComplete(ctx context.Context, childID, choreID string) (*choresdomain.Chore, error)
	SelectRewardDestination(ctx context.Context, childID, choreID, goalID string) (*choresdomain.Approval, error)
}

type GoalService interface {
	ListChildGoals(ctx context.Context, childID string) ([]goalsdomain.Goal, error)
	ToggleAutoApply(ctx context.Context, childID, goalID string) (*goalsdomain.Goal, error)
	TransferFromSavings(ctx context.Context, actorID, childID, goalID string, amount decimal.Decimal) (*goalsdomain.TransferResult, error)
}

type NotificationService interface {
	ListChildNotifications(ctx context.Context, childID string, limit int) ([]notificationsdomain.Notification, error)
	MarkChildRead(ctx context.Context, childID, id string) error
}

// Handlers serve the child dashboard. Every route runs behind the child
// session middleware.
type Handlers struct {
	Chores        ChoreService
	Goals         GoalService
	Notifications NotificationService
	log           logger.Logger
}

func New(chores ChoreService, goals GoalService, notifications NotificationService, log logger.Logger) *Handlers {
	return &Handlers{
		Chores:        chores,
		Goals:         goals,
		Notifications: notifications,
		log:           log,
	}
}
