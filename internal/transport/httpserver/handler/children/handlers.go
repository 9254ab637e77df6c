package children

import (
	"context"

	childrendomain "family-chores-go/internal/domain/children"
	goalsdomain "family-chores-go/internal/domain/goals"
	"family-chores-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateChild(ctx context.Context, parentID string, input childrendomain.CreateInput) (*childrendomain.Child, error)
	GetFamilyChild(ctx context.Context, parentID, childID string) (*childrendomain.Child, error)
	ListFamilyChildren(ctx context.Context, parentID string) ([]childrendomain.Child, error)
	UpdateChild(ctx context.Context, parentID, childID string, input childrendomain.UpdateInput) (*childrendomain.Child, error)
	ResetEarnings(ctx context.Context, parentID, childID string) (*childrendomain.Child, error)
	RegenerateToken(ctx context.Context, parentID, childID string) (*childrendomain.Child, error)
	EnsureTokens(ctx context.Context, parentID string) (int, error)
	DeleteChild(ctx context.Context, parentID, childID string) error
	IssueSession(ctx context.Context, token string) (*childrendomain.Session, error)
}

type Transferrer interface {
	TransferFromSavings(ctx context.Context, actorID, childID, goalID string, amount decimal.Decimal) (*goalsdomain.TransferResult, error)
}

type Handlers struct {
	Children Service
	Goals    Transferrer
	log      logger.Logger
}

func New(children Service, goals Transferrer, log logger.Logger) *Handlers {
	return &Handlers{
		Children: children,
		Goals:    goals,
		log:      log,
	}
}
