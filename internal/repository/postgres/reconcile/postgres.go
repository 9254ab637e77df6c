package reconcile

import (
	"context"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/ledger"
	reconciledomain "family-chores-go/internal/domain/reconcile"
	"family-chores-go/internal/repository/postgres/accounts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var creditedStatuses = []chores.Status{chores.StatusApproved, chores.StatusAwaitingGoalSelection}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(reconciledomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListChildren(ctx context.Context) ([]children.Child, error) {
	var list []children.Child
	if err := r.db.WithContext(ctx).Order("first_name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListCreditedChores(ctx context.Context) ([]chores.Chore, error) {
	var list []chores.Chore
	if err := r.db.WithContext(ctx).
		Where("status IN ?", creditedStatuses).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) LockChild(ctx context.Context, childID string) (*children.Child, error) {
	return accounts.LockChild(ctx, r.db, childID)
}

func (r *PostgresRepository) SumCreditedRewards(ctx context.Context, childID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&chores.Chore{}).
		Select("COALESCE(SUM(reward), 0)").
		Where("child_id = ? AND status IN ?", childID, creditedStatuses).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *PostgresRepository) UpdateChildEarnings(ctx context.Context, childID string, totalEarnings decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&children.Child{}).
		Where("id = ?", childID).
		Update("total_earnings", totalEarnings).Error
}

func (r *PostgresRepository) AppendEntries(ctx context.Context, entries []ledger.Entry) error {
	return accounts.AppendEntries(ctx, r.db, entries)
}
