package inmemory

import (
	"context"
	"sync"
	"time"
)

// InMemoryChildTokenCache maps capability tokens to child ids.
type InMemoryChildTokenCache struct {
	mu    sync.RWMutex
	items map[string]tokenItem
}

type tokenItem struct {
	childID   string
	expiresAt time.Time
}

func NewInMemoryChildTokenCache() *InMemoryChildTokenCache {
	return &InMemoryChildTokenCache{
		items: make(map[string]tokenItem),
	}
}

func (c *InMemoryChildTokenCache) GetChildID(_ context.Context, token string) (string, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[token]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if !item.expiresAt.After(now) {
		c.DeleteToken(context.Background(), token)
		return "", false
	}
	return item.childID, true
}

func (c *InMemoryChildTokenCache) SetChildID(_ context.Context, token, childID string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.items[token] = tokenItem{childID: childID, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *InMemoryChildTokenCache) DeleteToken(_ context.Context, token string) {
	c.mu.Lock()
	delete(c.items, token)
	c.mu.Unlock()
}
