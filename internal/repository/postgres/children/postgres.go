package children

import (
	"context"
	"errors"
	"strings"

	childrendomain "family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/ledger"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(childrendomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetChild(ctx context.Context, id string) (*childrendomain.Child, error) {
	var child childrendomain.Child
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, childrendomain.ErrChildNotFound
		}
		return nil, err
	}
	return &child, nil
}

func (r *PostgresRepository) GetChildByToken(ctx context.Context, token string) (*childrendomain.Child, error) {
	var child childrendomain.Child
	err := r.db.WithContext(ctx).
		Where("upper(token) = ?", strings.ToUpper(token)).
		First(&child).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, childrendomain.ErrChildNotFound
	}
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *PostgresRepository) LockChild(ctx context.Context, id string) (*childrendomain.Child, error) {
	return accounts.LockChild(ctx, r.db, id)
}

func (r *PostgresRepository) ListChildrenByParents(ctx context.Context, parentIDs []string) ([]childrendomain.Child, error) {
	if len(parentIDs) == 0 {
		return []childrendomain.Child{}, nil
	}
	var list []childrendomain.Child
	if err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) CreateChild(ctx context.Context, child *childrendomain.Child) error {
	return r.db.WithContext(ctx).Create(child).Error
}

func (r *PostgresRepository) UpdateChild(ctx context.Context, child *childrendomain.Child) error {
	return r.db.WithContext(ctx).
		Model(&childrendomain.Child{}).
		Where("id = ?", child.ID).
		Updates(map[string]any{
			"first_name":      child.FirstName,
			"date_of_birth":   child.DateOfBirth,
			"profile_picture": child.ProfilePicture,
		}).Error
}

func (r *PostgresRepository) UpdateToken(ctx context.Context, id, token string) error {
	return r.db.WithContext(ctx).Model(&childrendomain.Child{}).Where("id = ?", id).Update("token", token).Error
}

func (r *PostgresRepository) UpdateBalances(ctx context.Context, id string, totalEarnings, savingsBucket decimal.Decimal) error {
	return accounts.UpdateChildBalances(ctx, r.db, id, totalEarnings, savingsBucket)
}

func (r *PostgresRepository) DeleteChild(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&childrendomain.Child{}, "id = ?", id).Error
}

func (r *PostgresRepository) AddChildToParents(ctx context.Context, parentIDs []string, childID string) error {
	if len(parentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec("UPDATE parents SET children = array_append(children, ?), updated_at = NOW() WHERE id IN ? AND NOT (? = ANY(children))", childID, parentIDs, childID).
		Error
}

func (r *PostgresRepository) RemoveChildFromParents(ctx context.Context, childID string) error {
	return r.db.WithContext(ctx).
		Exec("UPDATE parents SET children = array_remove(children, ?), updated_at = NOW() WHERE ? = ANY(children)", childID, childID).
		Error
}

func (r *PostgresRepository) IsTokenTaken(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&childrendomain.Child{}).
		Where("upper(token) = ?", strings.ToUpper(token)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) AppendEntries(ctx context.Context, entries []ledger.Entry) error {
	return accounts.AppendEntries(ctx, r.db, entries)
}
