package children

import (
	"context"
	"time"
)

// Cache maps normalized capability tokens to child ids. Balances are never
// cached.
type Cache interface {
	GetChildID(ctx context.Context, token string) (string, bool)
	SetChildID(ctx context.Context, token, childID string, ttl time.Duration)
	DeleteToken(ctx context.Context, token string)
}

type noopCache struct{}

func (noopCache) GetChildID(context.Context, string) (string, bool) {
	return "", false
}

func (noopCache) SetChildID(context.Context, string, string, time.Duration) {}

func (noopCache) DeleteToken(context.Context, string) {}
