package notifications

import (
	"context"

	notificationsdomain "family-chores-go/internal/domain/notifications"
	"family-chores-go/pkg/logger"
)

type Service interface {
	ListNotifications(ctx context.Context, parentID string, limit int) ([]notificationsdomain.Notification, error)
	MarkRead(ctx context.Context, parentID, id string) error
	GetSettings(ctx context.Context, userID string) (*notificationsdomain.Settings, error)
	UpdateSettings(ctx context.Context, userID string, update notificationsdomain.SettingsUpdate) (*notificationsdomain.Settings, error)
}

type Handlers struct {
	Notifications Service
	log           logger.Logger
}

func New(notifications Service, log logger.Logger) *Handlers {
	return &Handlers{
		Notifications: notifications,
		log:           log,
	}
}
