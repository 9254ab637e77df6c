package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const childTokenKeyPrefix = "family-chores:child-token:"

func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// ChildTokenCache maps capability tokens to child ids in redis. Cache
// failures are logged and treated as misses.
type ChildTokenCache struct {
	client goredis.Cmdable
	log    logger.Logger
}

func NewChildTokenCache(client goredis.Cmdable, log logger.Logger) *ChildTokenCache {
	return &ChildTokenCache{client: client, log: log}
}

func (c *ChildTokenCache) GetChildID(ctx context.Context, token string) (string, bool) {
	childID, err := c.client.Get(ctx, childTokenKey(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false
	}
	if err != nil {
		c.log.InternalError("cache.child_token: get failed", err)
		return "", false
	}
	return childID, childID != ""
}

func (c *ChildTokenCache) SetChildID(ctx context.Context, token, childID string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, childTokenKey(token), childID, ttl).Err(); err != nil {
		c.log.InternalError("cache.child_token: set failed", err, "child_id", childID)
	}
}

func (c *ChildTokenCache) DeleteToken(ctx context.Context, token string) {
	if err := c.client.Del(ctx, childTokenKey(token)).Err(); err != nil {
		c.log.InternalError("cache.child_token: delete failed", err)
	}
}

func childTokenKey(token string) string {
	return childTokenKeyPrefix + token
}
