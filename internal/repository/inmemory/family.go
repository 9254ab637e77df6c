package inmemory

import (
	"sync"
	"time"
)

// InMemoryFamilyCache keeps the resolved member ids of each parent's family.
type InMemoryFamilyCache struct {
	mu    sync.RWMutex
	items map[string]membersItem
}

type membersItem struct {
	value     []string
	expiresAt time.Time
}

func NewInMemoryFamilyCache() *InMemoryFamilyCache {
	return &InMemoryFamilyCache{
		items: make(map[string]membersItem),
	}
}

func (c *InMemoryFamilyCache) GetMembers(parentID string) ([]string, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[parentID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[parentID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, parentID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return append([]string(nil), item.value...), true
}

func (c *InMemoryFamilyCache) SetMembers(parentID string, members []string, ttl time.Duration) {
	if len(members) == 0 || ttl <= 0 {
		c.DeleteMembers(parentID)
		return
	}

	c.mu.Lock()
	c.items[parentID] = membersItem{
		value:     append([]string(nil), members...),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryFamilyCache) DeleteMembers(parentID string) {
	c.mu.Lock()
	delete(c.items, parentID)
	c.mu.Unlock()
}

func (c *InMemoryFamilyCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]membersItem)
	c.mu.Unlock()
}
