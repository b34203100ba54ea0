package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the subset of redis operations used by the moderation service.
type Cache interface {
	SetString(ctx context.Context, key, value string, exp time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	Expire(ctx context.Context, key string, seconds int) (bool, error)
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	ScriptRun(ctx context.Context, script *redis.Script, keys []string, args ...any) (any, error)
}
