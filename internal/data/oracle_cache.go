package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"loopmod/internal/conf"
	"loopmod/internal/pkg/analyzer"
	"loopmod/internal/pkg/oracle"
	pkgredis "loopmod/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	oracleCachePrefix     = "loopmod:verdict:"
	defaultOracleCacheTTL = 24 * time.Hour
)

type oracleResultCache struct {
	cache pkgredis.Cache
	ttl   time.Duration
	log   *log.Helper
}

// NewOracleResultCache creates the redis-backed verdict cache.
func NewOracleResultCache(cache pkgredis.Cache, conf *conf.Moderation, logger log.Logger) analyzer.ResultCache {
	ttl := conf.CacheTTL.AsDuration()
	if ttl == 0 {
		ttl = defaultOracleCacheTTL
	}
	return &oracleResultCache{
		cache: cache,
		ttl:   ttl,
		log:   log.NewHelper(logger),
	}
}

func (c *oracleResultCache) Get(ctx context.Context, contentHash string) (*oracle.Result, bool, error) {
	raw, err := c.cache.GetString(ctx, oracleCachePrefix+contentHash)
	if errors.Is(err, pkgredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var res oracle.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

func (c *oracleResultCache) Set(ctx context.Context, contentHash string, res *oracle.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.cache.SetString(ctx, oracleCachePrefix+contentHash, string(raw), c.ttl)
}
