package family

import "time"

// Cache holds the resolved member ids of a parent's family.
type Cache interface {
	GetMembers(parentID string) ([]string, bool)
	SetMembers(parentID string, members []string, ttl time.Duration)
	DeleteMembers(parentID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetMembers(string) ([]string, bool) {
	return nil, false
}

func (noopCache) SetMembers(string, []string, time.Duration) {}

func (noopCache) DeleteMembers(string) {}

func (noopCache) Clear() {}
