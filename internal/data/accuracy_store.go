package data

import (
	"context"
	"strconv"
	"strings"

	"loopmod/internal/biz"
	pkgredis "loopmod/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

const accuracyKey = "loopmod:accuracy"

type accuracyStore struct {
	cache pkgredis.Cache
	log   *log.Helper
}

// NewAccuracyStore creates the redis-backed review-outcome counter store.
func NewAccuracyStore(cache pkgredis.Cache, logger log.Logger) biz.AccuracyStore {
	return &accuracyStore{
		cache: cache,
		log:   log.NewHelper(logger),
	}
}

func (s *accuracyStore) RecordOutcome(ctx context.Context, decision biz.Decision, confirmed bool) error {
	outcome := "overturned"
	if confirmed {
		outcome = "confirmed"
	}
	_, err := s.cache.HIncrBy(ctx, accuracyKey, outcome+":"+string(decision), 1)
	return err
}

func (s *accuracyStore) Load(ctx context.Context) (*biz.AccuracyStats, error) {
	fields, err := s.cache.HGetAll(ctx, accuracyKey)
	if err != nil {
		return nil, err
	}

	stats := &biz.AccuracyStats{
		Confirmed:  make(map[biz.Decision]int64),
		Overturned: make(map[biz.Decision]int64),
	}

	var confirmed int64
	for field, raw := range fields {
		outcome, decision, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.log.Warnf("bad accuracy counter %s=%s: %v", field, raw, err)
			continue
		}

		stats.Total += count
		switch outcome {
		case "confirmed":
			stats.Confirmed[biz.Decision(decision)] += count
			confirmed += count
		case "overturned":
			stats.Overturned[biz.Decision(decision)] += count
		}
	}

	if stats.Total > 0 {
		stats.Accuracy = float64(confirmed) / float64(stats.Total)
	}
	return stats, nil
}
