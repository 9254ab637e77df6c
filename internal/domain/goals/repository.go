package goals

import (
	"context"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetGoal(ctx context.Context, id string) (*Goal, error)
	LockGoal(ctx context.Context, id string) (*Goal, error)
	LockChild(ctx context.Context, childID string) (*children.Child, error)
	ListGoalsByChildren(ctx context.Context, childIDs []string) ([]Goal, error)
	ListActiveGoalsByChild(ctx context.Context, childID string) ([]Goal, error)
	CreateGoal(ctx context.Context, goal *Goal) error
	UpdateGoal(ctx context.Context, goal *Goal) error
	DeleteGoal(ctx context.Context, id string) error
	ClearAutoApply(ctx context.Context, childID, exceptGoalID string) error
	UpdateChildBalances(ctx context.Context, childID string, totalEarnings, savingsBucket decimal.Decimal) error
	AppendEntries(ctx context.Context, entries []ledger.Entry) error
	CreateNotification(ctx context.Context, notification *notifications.Notification) error
}
