package families

import (
	"context"

	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/pkg/logger"
)

type Service interface {
	GetParent(ctx context.Context, userID string) (*familydomain.Parent, error)
	UpdateFamilyName(ctx context.Context, userID, name string) (*familydomain.Parent, error)
	ValidateShareCode(ctx context.Context, code string) (*familydomain.Preview, error)
	JoinFamily(ctx context.Context, userID, code string) (*familydomain.Parent, error)
	SyncFamily(ctx context.Context, userID string) (*familydomain.SyncResult, error)
	ListMembers(ctx context.Context, userID string) ([]familydomain.Member, error)
	InviteByEmail(ctx context.Context, userID, email string) error
}

type Handlers struct {
	Families Service
	isAdmin  func(email string) bool
	log      logger.Logger
}

func New(families Service, isAdmin func(email string) bool, log logger.Logger) *Handlers {
	return &Handlers{
		Families: families,
		isAdmin:  isAdmin,
		log:      log,
	}
}
