package chores

import (
	"context"
	"errors"
	"time"

	"family-chores-go/internal/domain/children"
	choresdomain "family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/internal/repository/postgres/accounts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(choresdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetChore(ctx context.Context, id string) (*choresdomain.Chore, error) {
	var chore choresdomain.Chore
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&chore).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, choresdomain.ErrChoreNotFound
		}
		return nil, err
	}
	return &chore, nil
}

func (r *PostgresRepository) LockChore(ctx context.Context, id string) (*choresdomain.Chore, error) {
	var chore choresdomain.Chore
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&chore).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, choresdomain.ErrChoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chore, nil
}

func (r *PostgresRepository) CreateChore(ctx context.Context, chore *choresdomain.Chore) error {
	return r.db.WithContext(ctx).Create(chore).Error
}

func (r *PostgresRepository) UpdateChore(ctx context.Context, chore *choresdomain.Chore) error {
	return r.db.WithContext(ctx).Save(chore).Error
}

func (r *PostgresRepository) DeleteChore(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&choresdomain.Chore{}, "id = ?", id).Error
}

func (r *PostgresRepository) ListChoresByChildren(ctx context.Context, childIDs []string, filter choresdomain.ListFilter) ([]choresdomain.Chore, error) {
	if len(childIDs) == 0 {
		return []choresdomain.Chore{}, nil
	}
	query := r.db.WithContext(ctx).Where("child_id IN ?", childIDs)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var list []choresdomain.Chore
	if err := query.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListChoresByChild(ctx context.Context, childID string, statuses []choresdomain.Status) ([]choresdomain.Chore, error) {
	var list []choresdomain.Chore
	if err := r.db.WithContext(ctx).
		Where("child_id = ? AND status IN ?", childID, statuses).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListDueChores(ctx context.Context, from, to time.Time) ([]choresdomain.Chore, error) {
	var list []choresdomain.Chore
	if err := r.db.WithContext(ctx).
		Where("status = ? AND reminder_sent_at IS NULL AND due_at > ? AND due_at <= ?", choresdomain.StatusAssigned, from, to).
		Order("due_at asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) MarkReminded(ctx context.Context, choreID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&choresdomain.Chore{}).
		Where("id = ?", choreID).
		Update("reminder_sent_at", at).Error
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, childIDs []string) (map[choresdomain.Status]int64, error) {
	type statusRow struct {
		Status choresdomain.Status `gorm:"column:status"`
		Count  int64               `gorm:"column:count"`
	}

	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&choresdomain.Chore{}).
		Select("status, count(*) as count").
		Where("child_id IN ?", childIDs).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[choresdomain.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PostgresRepository) CountDueBefore(ctx context.Context, childIDs []string, before time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&choresdomain.Chore{}).
		Where("child_id IN ? AND status = ? AND due_at IS NOT NULL AND due_at <= ?", childIDs, choresdomain.StatusAssigned, before).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) LockChild(ctx context.Context, childID string) (*children.Child, error) {
	return accounts.LockChild(ctx, r.db, childID)
}

func (r *PostgresRepository) UpdateChildBalances(ctx context.Context, childID string, totalEarnings, savingsBucket decimal.Decimal) error {
	return accounts.UpdateChildBalances(ctx, r.db, childID, totalEarnings, savingsBucket)
}

func (r *PostgresRepository) LockGoal(ctx context.Context, goalID string) (*goals.Goal, error) {
	return accounts.LockGoal(ctx, r.db, goalID)
}

func (r *PostgresRepository) FindAutoApplyGoal(ctx context.Context, childID string) (*goals.Goal, error) {
	var goal goals.Goal
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("child_id = ? AND auto_apply AND status = ? AND is_monetary", childID, goals.StatusActive).
		Order("created_at asc").
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, choresdomain.ErrNoAutoApplyGoal
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) UpdateGoal(ctx context.Context, goal *goals.Goal) error {
	return accounts.UpdateGoal(ctx, r.db, goal)
}

func (r *PostgresRepository) AppendEntries(ctx context.Context, entries []ledger.Entry) error {
	return accounts.AppendEntries(ctx, r.db, entries)
}

func (r *PostgresRepository) CreateNotification(ctx context.Context, notification *notifications.Notification) error {
	return accounts.CreateNotification(ctx, r.db, notification)
}
