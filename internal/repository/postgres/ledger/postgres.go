package ledger

import (
	"context"

	ledgerdomain "family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/repository/postgres/accounts"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AppendEntries(ctx context.Context, entries []ledgerdomain.Entry) error {
	return accounts.AppendEntries(ctx, r.db, entries)
}

func (r *PostgresRepository) ListEntriesByChild(ctx context.Context, childID string) ([]ledgerdomain.Entry, error) {
	var entries []ledgerdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) ListEntries(ctx context.Context) ([]ledgerdomain.Entry, error) {
	var entries []ledgerdomain.Entry
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
