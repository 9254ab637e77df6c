package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetParent(ctx context.Context, id string) (*Parent, error)
	LockParents(ctx context.Context, ids []string) ([]Parent, error)
	CreateParent(ctx context.Context, parent *Parent) error
	UpdateParent(ctx context.Context, parent *Parent) error
	FindParentByShareCode(ctx context.Context, code string) (*Parent, error)
	ListParentsByShareCode(ctx context.Context, code string) ([]Parent, error)
	ListChildIDsByParents(ctx context.Context, parentIDs []string) ([]string, error)
	SetFamilyArrays(ctx context.Context, parentID string, members, children []string) error
	UpdateFamilyName(ctx context.Context, shareCode, name string) error
	IsShareCodeTaken(ctx context.Context, code string) (bool, error)
}
