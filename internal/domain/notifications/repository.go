package notifications

import "context"

type Repository interface {
	CreateNotifications(ctx context.Context, items []Notification) error
	ListByParent(ctx context.Context, parentID string, limit int) ([]Notification, error)
	ListByChild(ctx context.Context, childID string, limit int) ([]Notification, error)
	MarkParentRead(ctx context.Context, parentID, id string) error
	MarkChildRead(ctx context.Context, childID, id string) error
	GetSettings(ctx context.Context, userID string) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error
}
