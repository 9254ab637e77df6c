package children

import (
	"context"

	"family-chores-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetChild(ctx context.Context, id string) (*Child, error)
	GetChildByToken(ctx context.Context, token string) (*Child, error)
	LockChild(ctx context.Context, id string) (*Child, error)
	ListChildrenByParents(ctx context.Context, parentIDs []string) ([]Child, error)
	CreateChild(ctx context.Context, child *Child) error
	UpdateChild(ctx context.Context, child *Child) error
	UpdateToken(ctx context.Context, id, token string) error
	UpdateBalances(ctx context.Context, id string, totalEarnings, savingsBucket decimal.Decimal) error
	DeleteChild(ctx context.Context, id string) error
	AddChildToParents(ctx context.Context, parentIDs []string, childID string) error
	RemoveChildFromParents(ctx context.Context, childID string) error
	IsTokenTaken(ctx context.Context, token string) (bool, error)
	AppendEntries(ctx context.Context, entries []ledger.Entry) error
}
