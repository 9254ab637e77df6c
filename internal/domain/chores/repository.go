package chores

import (
	"context"
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetChore(ctx context.Context, id string) (*Chore, error)
	LockChore(ctx context.Context, id string) (*Chore, error)
	CreateChore(ctx context.Context, chore *Chore) error
	UpdateChore(ctx context.Context, chore *Chore) error
	DeleteChore(ctx context.Context, id string) error
	ListChoresByChildren(ctx context.Context, childIDs []string, filter ListFilter) ([]Chore, error)
	ListChoresByChild(ctx context.Context, childID string, statuses []Status) ([]Chore, error)
	ListDueChores(ctx context.Context, from, to time.Time) ([]Chore, error)
	MarkReminded(ctx context.Context, choreID string, at time.Time) error
	CountByStatus(ctx context.Context, childIDs []string) (map[Status]int64, error)
	CountDueBefore(ctx context.Context, childIDs []string, before time.Time) (int64, error)

	LockChild(ctx context.Context, childID string) (*children.Child, error)
	UpdateChildBalances(ctx context.Context, childID string, totalEarnings, savingsBucket decimal.Decimal) error
	LockGoal(ctx context.Context, goalID string) (*goals.Goal, error)
	// FindAutoApplyGoal locks the child's active monetary auto-apply goal.
	// It returns ErrNoAutoApplyGoal when there is none.
	FindAutoApplyGoal(ctx context.Context, childID string) (*goals.Goal, error)
	UpdateGoal(ctx context.Context, goal *goals.Goal) error
	AppendEntries(ctx context.Context, entries []ledger.Entry) error
	CreateNotification(ctx context.Context, notification *notifications.Notification) error
}
