package ledger

import "context"

type Repository interface {
	AppendEntries(ctx context.Context, entries []Entry) error
	ListEntriesByChild(ctx context.Context, childID string) ([]Entry, error)
	ListEntries(ctx context.Context) ([]Entry, error)
}
