// Package accounts holds the child balance, goal and ledger writes shared by
// the chore, goal and reconciliation repositories.
package accounts

import (
	"context"
	"errors"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func LockChild(ctx context.Context, db *gorm.DB, childID string) (*children.Child, error) {
	var child children.Child
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", childID).
		First(&child).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, children.ErrChildNotFound
	}
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func UpdateChildBalances(ctx context.Context, db *gorm.DB, childID string, totalEarnings, savingsBucket decimal.Decimal) error {
	result := db.WithContext(ctx).
		Model(&children.Child{}).
		Where("id = ?", childID).
		Updates(map[string]any{
			"total_earnings": totalEarnings,
			"savings_bucket": savingsBucket,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return children.ErrChildNotFound
	}
	return nil
}

func LockGoal(ctx context.Context, db *gorm.DB, goalID string) (*goals.Goal, error) {
	var goal goals.Goal
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", goalID).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, goals.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func UpdateGoal(ctx context.Context, db *gorm.DB, goal *goals.Goal) error {
	return db.WithContext(ctx).Save(goal).Error
}

func AppendEntries(ctx context.Context, db *gorm.DB, entries []ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&entries).Error
}

func CreateNotification(ctx context.Context, db *gorm.DB, notification *notifications.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}
