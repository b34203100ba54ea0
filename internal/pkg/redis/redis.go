package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Cache on top of a go-redis client.
type Redis struct {
	client *redis.Client
}

const Nil = redis.Nil

// New creates a Cache from a redis URL.
func New(url string) Cache {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatal(err)
	}
	return &Redis{
		client: redis.NewClient(opts),
	}
}

// NewWithClient wraps an existing go-redis client.
func NewWithClient(client *redis.Client) Cache {
	return &Redis{client: client}
}

// NewScript compiles a Lua script for ScriptRun.
func NewScript(script string) *redis.Script {
	return redis.NewScript(script)
}

func (r *Redis) SetString(ctx context.Context, key, value string, exp time.Duration) error {
	return r.client.Set(ctx, key, value, exp).Err()
}

func (r *Redis) GetString(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	return r.client.Del(ctx, keys...).Result()
}

func (r *Redis) Expire(ctx context.Context, key string, seconds int) (bool, error) {
	return r.client.Expire(ctx, key, time.Duration(seconds)*time.Second).Result()
}

func (r *Redis) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	return r.client.HIncrBy(ctx, key, field, incr).Result()
}

func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

func (r *Redis) ScriptRun(ctx context.Context, script *redis.Script, keys []string, args ...any) (any, error) {
	conn := r.client.Conn()
	defer conn.Close()

	return script.Run(ctx, conn, keys, args...).Result()
}
