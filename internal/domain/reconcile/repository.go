package reconcile

import (
	"context"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListChildren(ctx context.Context) ([]children.Child, error)
	// ListCreditedChores returns approved chores and chores awaiting goal
	// selection, whose rewards are already part of the earnings total.
	ListCreditedChores(ctx context.Context) ([]chores.Chore, error)
	LockChild(ctx context.Context, childID string) (*children.Child, error)
	SumCreditedRewards(ctx context.Context, childID string) (decimal.Decimal, error)
	UpdateChildEarnings(ctx context.Context, childID string, totalEarnings decimal.Decimal) error
	AppendEntries(ctx context.Context, entries []ledger.Entry) error
}
