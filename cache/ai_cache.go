package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// AICache stores AI results keyed by a hash of their inputs and throttles
// live sessions with cooldown keys.
type AICache struct {
	redis *RedisClient
}

// NewAICache creates a cache over redis; a nil redis disables it.
func NewAICache(redis *RedisClient) *AICache {
	return &AICache{
		redis: redis,
	}
}

func resultKey(kind, hash string) string {
	return fmt.Sprintf("ai:result:%s:%s", kind, hash)
}

func cooldownKey(session string) string {
	return fmt.Sprintf("ai:cooldown:%s", session)
}

// Load decodes the cached result of kind/hash into dest and reports whether
// it was found.
func (c *AICache) Load(ctx context.Context, kind, hash string, dest interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}
	return c.redis.Get(ctx, resultKey(kind, hash), dest) == nil
}

// Store caches a result for ttl.
func (c *AICache) Store(ctx context.Context, kind, hash string, value interface{}, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	return c.redis.Set(ctx, resultKey(kind, hash), value, ttl)
}

// AcquireCooldown starts a cooldown for session. It returns false when one
// is already running. Without Redis every call is allowed.
func (c *AICache) AcquireCooldown(ctx context.Context, session string, ttl time.Duration) bool {
	if c == nil || c.redis == nil || ttl <= 0 {
		return true
	}
	ok, err := c.redis.SetNX(ctx, cooldownKey(session), time.Now().Unix(), ttl)
	if err != nil {
		return true
	}
	return ok
}

// IsInCooldown checks if a session is in its cooldown period
func (c *AICache) IsInCooldown(ctx context.Context, session string) bool {
	if c == nil || c.redis == nil {
		return false
	}
	return c.redis.Exists(ctx, cooldownKey(session))
}

// GenerateDataHash hashes the JSON form of data so unchanged inputs hit the
// cache.
func GenerateDataHash(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf("%x", hash[:8]) // Use first 8 bytes for shorter hash
}
