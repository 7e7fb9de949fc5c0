package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisReplyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisReplyCache(rdb *redis.Client, ttl time.Duration) *RedisReplyCache {
	return &RedisReplyCache{rdb: rdb, ttl: ttl}
}

func replyKey(gatewayTextID string) string {
	return "reply:" + gatewayTextID
}

func (c *RedisReplyCache) MarkSeen(ctx context.Context, gatewayTextID string) (bool, error) {
	set, err := c.rdb.SetNX(ctx, replyKey(gatewayTextID), 1, c.ttl).Result()
	if err != nil {
		return false, err
	}
	// SetNX succeeds only for a fresh id.
	return !set, nil
}

// MemoryReplyCache is the fallback when Redis is not configured.
// Entries never expire and are lost on restart.
type MemoryReplyCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryReplyCache() *MemoryReplyCache {
	return &MemoryReplyCache{seen: make(map[string]struct{})}
}

func (c *MemoryReplyCache) MarkSeen(ctx context.Context, gatewayTextID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[gatewayTextID]; ok {
		return true, nil
	}
	c.seen[gatewayTextID] = struct{}{}
	return false, nil
}
