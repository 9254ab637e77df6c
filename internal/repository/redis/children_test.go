package redis

import (
	"context"
	"testing"
	"time"

	"family-chores-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

func TestChildTokenCacheTreatsUnreachableRedisAsMiss(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	cache := NewChildTokenCache(client, logger.Nop())

	ctx := context.Background()
	cache.SetChildID(ctx, "ABCD2345", "c1", time.Minute)
	if _, ok := cache.GetChildID(ctx, "ABCD2345"); ok {
		t.Fatalf("expected miss when redis is unreachable")
	}
	cache.DeleteToken(ctx, "ABCD2345")
}

func TestChildTokenKey(t *testing.T) {
	if got := childTokenKey("ABCD2345"); got != "family-chores:child-token:ABCD2345" {
		t.Fatalf("unexpected key %q", got)
	}
}
