package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
)

const (
	opTimeout   = 2 * time.Second
	scanTimeout = 3 * time.Second
	scanBatch   = 1000
)

// Cache stores derived month views. Every method is best effort: a miss
// or a backend failure never surfaces to the caller.
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	InvalidatePrefix(ctx context.Context, prefix string)
	Close() error
}

// UserPrefix is the key prefix covering every cached month of a user
func UserPrefix(userID string) string {
	return constants.CacheKeyPrefix + userID + ":"
}

// MonthKey identifies a user's month view as rendered on a given day
func MonthKey(userID, month, today string) string {
	return UserPrefix(userID) + month + ":" + today
}

// Noop is used when no Redis address is configured
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) bool { return false }
func (Noop) SetJSON(context.Context, string, any, time.Duration) {}
func (Noop) InvalidatePrefix(context.Context, string) {}
func (Noop) Close() error { return nil }

// Redis is a Cache backed by go-redis
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the server described by a redis:// URL
func NewRedis(rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = opTimeout
	opts.WriteTimeout = opTimeout

	return &Redis{client: redis.NewClient(opts)}, nil
}

// Ping checks that the server is reachable
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *Redis) GetJSON(ctx context.Context, key string, v any) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Debug("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		logger.Warn("cache entry is not valid JSON", "key", key, "error", err)
		return false
	}
	return true
}

func (r *Redis) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache value cannot be encoded", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// InvalidatePrefix deletes every key starting with prefix using SCAN
func (r *Redis) InvalidatePrefix(ctx context.Context, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	scan := func(ctx context.Context, cursor uint64) ([]string, uint64, error) {
		return r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
	}
	del := func(ctx context.Context, keys []string) error {
		pipe := r.client.Pipeline()
		for _, k := range keys {
			pipe.Del(ctx, k)
		}
		_, err := pipe.Exec(ctx)
		return err
	}
	if err := sweep(ctx, scan, del); err != nil {
		logger.Warn("cache invalidation incomplete", "prefix", prefix, "error", err)
	}
}

type scanFunc func(ctx context.Context, cursor uint64) (keys []string, next uint64, err error)

// sweep walks a SCAN cursor until the server hands back 0, deleting each
// batch as it arrives. Only ctx bounds the walk; an expired ctx returns its
// error so the caller knows keys may have survived.
func sweep(ctx context.Context, scan scanFunc, del func(context.Context, []string) error) error {
	var cursor uint64
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped at cursor %d: %w", cursor, err)
		}
		keys, next, err := scan(ctx, cursor)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := del(ctx, keys); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
