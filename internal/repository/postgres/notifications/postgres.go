package notifications

import (
	"context"
	"errors"

	notificationsdomain "family-chores-go/internal/domain/notifications"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateNotifications(ctx context.Context, items []notificationsdomain.Notification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PostgresRepository) ListByParent(ctx context.Context, parentID string, limit int) ([]notificationsdomain.Notification, error) {
	var items []notificationsdomain.Notification
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListByChild(ctx context.Context, childID string, limit int) ([]notificationsdomain.Notification, error) {
	var items []notificationsdomain.Notification
	if err := r.db.WithContext(ctx).
		Where("child_id = ? AND parent_id IS NULL", childID).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) MarkParentRead(ctx context.Context, parentID, id string) error {
	return r.markRead(ctx, "id = ? AND parent_id = ?", id, parentID)
}

func (r *PostgresRepository) MarkChildRead(ctx context.Context, childID, id string) error {
	return r.markRead(ctx, "id = ? AND child_id = ? AND parent_id IS NULL", id, childID)
}

func (r *PostgresRepository) markRead(ctx context.Context, query string, args ...any) error {
	result := r.db.WithContext(ctx).
		Model(&notificationsdomain.Notification{}).
		Where(query, args...).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notificationsdomain.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*notificationsdomain.Settings, error) {
	var settings notificationsdomain.Settings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationsdomain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *PostgresRepository) SaveSettings(ctx context.Context, settings *notificationsdomain.Settings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"notifications_enabled",
				"new_chores_created",
				"chores_pending_review",
				"new_goals_added",
				"goals_completed",
				"updated_at",
			}),
		}).
		Create(settings).Error
}
