package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "teamspend:classify:"

// Cache stores serialized suggestions by key.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedStrategy memoizes another strategy's answers. Cache faults never
// fail a classification.
type CachedStrategy struct {
	inner Strategy
	cache Cache
	ttl   time.Duration
}

func NewCachedStrategy(inner Strategy, cache Cache, ttl time.Duration) *CachedStrategy {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &CachedStrategy{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedStrategy) Name() string { return c.inner.Name() }

func (c *CachedStrategy) Classify(ctx context.Context, description string) (Suggestion, bool, error) {
	key := cacheKey(c.inner.Name(), description)

	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "suggestion cache read failed", "error", err)
	}

	if found {
		var s Suggestion
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s, true, nil
		}
	}

	s, ok, err := c.inner.Classify(ctx, description)
	if err != nil || !ok {
		return s, ok, err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return s, true, nil
	}

	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		slog.WarnContext(ctx, "suggestion cache write failed", "error", err)
	}

	return s, true, nil
}

func cacheKey(strategy, description string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(description))))
	return cacheKeyPrefix + strategy + ":" + hex.EncodeToString(sum[:])
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{client: client, timeout: 250 * time.Millisecond}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
