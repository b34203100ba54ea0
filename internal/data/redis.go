package data

import (
	"context"

	"loopmod/internal/conf"
	pkgredis "loopmod/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// NewRedisCache creates the redis cache client.
func NewRedisCache(conf *conf.Data, logger log.Logger) (pkgredis.Cache, func(), error) {
	helper := log.NewHelper(logger)

	client := redis.NewClient(&redis.Options{
		Addr:         conf.Redis.Addr,
		Network:      conf.Redis.Network,
		ReadTimeout:  conf.Redis.ReadTimeout.AsDuration(),
		WriteTimeout: conf.Redis.WriteTimeout.AsDuration(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing redis connection")
		client.Close()
	}

	return pkgredis.NewWithClient(client), cleanup, nil
}
