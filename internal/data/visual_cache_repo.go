package data

import (
	"context"
	"errors"

	"loopmod/internal/pkg/analyzer"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
)

type visualCacheRepo struct {
	data *Data
	log  *log.Helper
}

// NewVisualCacheRepo creates the known-unsafe visual store.
func NewVisualCacheRepo(data *Data, logger log.Logger) analyzer.KnownVisualStore {
	return &visualCacheRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// FindSimilar returns the nearest known visual within maxDistance hamming bits.
// bit_count over the xor of the two hashes is the hamming distance.
func (r *visualCacheRepo) FindSimilar(ctx context.Context, phash int64, maxDistance int32) (*analyzer.KnownVisual, error) {
	row := r.data.Pool.QueryRow(ctx, `
		SELECT phash, category, confidence, source_url
		FROM visual_cache
		WHERE bit_count((phash # $1)::bit(64)) <= $2
		ORDER BY bit_count((phash # $1)::bit(64)) ASC
		LIMIT 1`,
		phash, maxDistance)

	var v analyzer.KnownVisual
	err := row.Scan(&v.PHash, &v.Category, &v.Confidence, &v.SourceURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visualCacheRepo) Save(ctx context.Context, v *analyzer.KnownVisual) error {
	_, err := r.data.Pool.Exec(ctx, `
		INSERT INTO visual_cache (phash, category, confidence, source_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phash) DO UPDATE
		SET category = EXCLUDED.category, confidence = EXCLUDED.confidence`,
		v.PHash, v.Category, v.Confidence, v.SourceURL)
	return err
}
