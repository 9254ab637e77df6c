package goals

import (
	"context"
	"errors"

	"family-chores-go/internal/domain/children"
	goalsdomain "family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/internal/repository/postgres/accounts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(goalsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetGoal(ctx context.Context, id string) (*goalsdomain.Goal, error) {
	var goal goalsdomain.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goalsdomain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) LockGoal(ctx context.Context, id string) (*goalsdomain.Goal, error) {
	return accounts.LockGoal(ctx, r.db, id)
}

func (r *PostgresRepository) LockChild(ctx context.Context, childID string) (*children.Child, error) {
	return accounts.LockChild(ctx, r.db, childID)
}

func (r *PostgresRepository) ListGoalsByChildren(ctx context.Context, childIDs []string) ([]goalsdomain.Goal, error) {
	if len(childIDs) == 0 {
		return []goalsdomain.Goal{}, nil
	}
	var list []goalsdomain.Goal
	if err := r.db.WithContext(ctx).
		Where("child_id IN ?", childIDs).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListActiveGoalsByChild(ctx context.Context, childID string) ([]goalsdomain.Goal, error) {
	var list []goalsdomain.Goal
	if err := r.db.WithContext(ctx).
		Where("child_id = ? AND status = ?", childID, goalsdomain.StatusActive).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) CreateGoal(ctx context.Context, goal *goalsdomain.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *PostgresRepository) UpdateGoal(ctx context.Context, goal *goalsdomain.Goal) error {
	return accounts.UpdateGoal(ctx, r.db, goal)
}

func (r *PostgresRepository) DeleteGoal(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&goalsdomain.Goal{}, "id = ?", id).Error
}

func (r *PostgresRepository) ClearAutoApply(ctx context.Context, childID, exceptGoalID string) error {
	return r.db.WithContext(ctx).
		Model(&goalsdomain.Goal{}).
		Where("child_id = ? AND id <> ? AND auto_apply", childID, exceptGoalID).
		Update("auto_apply", false).Error
}

func (r *PostgresRepository) UpdateChildBalances(ctx context.Context, childID string, totalEarnings, savingsBucket decimal.Decimal) error {
	return accounts.UpdateChildBalances(ctx, r.db, childID, totalEarnings, savingsBucket)
}

func (r *PostgresRepository) AppendEntries(ctx context.Context, entries []ledger.Entry) error {
	return accounts.AppendEntries(ctx, r.db, entries)
}

func (r *PostgresRepository) CreateNotification(ctx context.Context, notification *notifications.Notification) error {
	return accounts.CreateNotification(ctx, r.db, notification)
}
