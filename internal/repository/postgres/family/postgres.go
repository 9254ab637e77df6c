package family

import (
	"context"
	"errors"

	familydomain "family-chores-go/internal/domain/family"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetParent(ctx context.Context, id string) (*familydomain.Parent, error) {
	var parent familydomain.Parent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrParentNotFound
		}
		return nil, err
	}
	return &parent, nil
}

// LockParents locks the given parent rows in id order.
func (r *PostgresRepository) LockParents(ctx context.Context, ids []string) ([]familydomain.Parent, error) {
	var parents []familydomain.Parent
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&parents).Error; err != nil {
		return nil, err
	}
	return parents, nil
}

func (r *PostgresRepository) CreateParent(ctx context.Context, parent *familydomain.Parent) error {
	return r.db.WithContext(ctx).Create(parent).Error
}

func (r *PostgresRepository) UpdateParent(ctx context.Context, parent *familydomain.Parent) error {
	return r.db.WithContext(ctx).Save(parent).Error
}

func (r *PostgresRepository) FindParentByShareCode(ctx context.Context, code string) (*familydomain.Parent, error) {
	var parent familydomain.Parent
	err := r.db.WithContext(ctx).
		Where("share_code = ?", code).
		Order("created_at asc").
		First(&parent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, familydomain.ErrShareCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *PostgresRepository) ListParentsByShareCode(ctx context.Context, code string) ([]familydomain.Parent, error) {
	var parents []familydomain.Parent
	if err := r.db.WithContext(ctx).
		Where("share_code = ?", code).
		Order("created_at asc").
		Find(&parents).Error; err != nil {
		return nil, err
	}
	return parents, nil
}

func (r *PostgresRepository) ListChildIDsByParents(ctx context.Context, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return []string{}, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("children").
		Where("parent_id IN ?", parentIDs).
		Order("created_at asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) SetFamilyArrays(ctx context.Context, parentID string, members, children []string) error {
	return r.db.WithContext(ctx).
		Model(&familydomain.Parent{}).
		Where("id = ?", parentID).
		Updates(map[string]any{
			"family_members": pq.StringArray(members),
			"children":       pq.StringArray(children),
		}).Error
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, shareCode, name string) error {
	return r.db.WithContext(ctx).
		Model(&familydomain.Parent{}).
		Where("share_code = ?", shareCode).
		Update("family_name", name).Error
}

func (r *PostgresRepository) IsShareCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Parent{}).Where("share_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
