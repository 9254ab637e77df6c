package chores

import (
	"context"

	choresdomain "family-chores-go/internal/domain/chores"
	"family-chores-go/pkg/logger"
)

type Service interface {
	CreateChore(ctx context.Context, parentID string, input choresdomain.CreateInput) (*choresdomain.Chore, error)
	GetChore(ctx context.Context, parentID, choreID string) (*choresdomain.Chore, error)
	UpdateChore(ctx context.Context, parentID, choreID string, input choresdomain.UpdateInput) (*choresdomain.Chore, error)
	DeleteChore(ctx context.Context, parentID, choreID string) error
	ApproveChore(ctx context.Context, parentID, choreID string) (*choresdomain.Approval, error)
	RejectChore(ctx context.Context, parentID, choreID, message string) (*choresdomain.Chore, error)
	ListChores(ctx context.Context, parentID string, filter choresdomain.ListFilter) ([]choresdomain.Chore, error)
	SendManualReminder(ctx context.Context, parentID, choreID, senderName string) error
	Summary(ctx context.Context, parentID string) (*choresdomain.Summary, error)
}

type Handlers struct {
	Chores Service
	log    logger.Logger
}

func New(chores Service, log logger.Logger) *Handlers {
	return &Handlers{
		Chores: chores,
		log:    log,
	}
}
