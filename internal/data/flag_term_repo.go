package data

import (
	"context"

	"loopmod/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
)

type flagTermRepo struct {
	data *Data
	log  *log.Helper
}

// NewFlagTermRepo creates a new FlagTermRepo.
func NewFlagTermRepo(data *Data, logger log.Logger) biz.FlagTermRepo {
	return &flagTermRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *flagTermRepo) Create(ctx context.Context, term *biz.FlagTerm) (*biz.FlagTerm, error) {
	row := r.data.Pool.QueryRow(ctx, `
		INSERT INTO flag_terms (term, kind, weight, added_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (term) DO UPDATE
		SET kind = EXCLUDED.kind, weight = EXCLUDED.weight,
		    added_by = EXCLUDED.added_by, updated_at = now()
		RETURNING id, term, kind, weight, added_by, created_at, updated_at`,
		term.Term, term.Kind, term.Weight, term.AddedBy)

	return scanFlagTerm(row)
}

func (r *flagTermRepo) Delete(ctx context.Context, term string) error {
	_, err := r.data.Pool.Exec(ctx, `DELETE FROM flag_terms WHERE term = $1`, term)
	return err
}

func (r *flagTermRepo) List(ctx context.Context, kind string, limit, offset int32) ([]*biz.FlagTerm, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if kind != "" {
		rows, err = r.data.Pool.Query(ctx, `
			SELECT id, term, kind, weight, added_by, created_at, updated_at
			FROM flag_terms WHERE kind = $1
			ORDER BY term LIMIT $2 OFFSET $3`,
			kind, limit, offset)
	} else {
		rows, err = r.data.Pool.Query(ctx, `
			SELECT id, term, kind, weight, added_by, created_at, updated_at
			FROM flag_terms
			ORDER BY term LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFlagTerms(rows)
}

func (r *flagTermRepo) ListAll(ctx context.Context) ([]*biz.FlagTerm, error) {
	rows, err := r.data.Pool.Query(ctx, `
		SELECT id, term, kind, weight, added_by, created_at, updated_at
		FROM flag_terms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFlagTerms(rows)
}

func (r *flagTermRepo) Count(ctx context.Context, kind string) (int64, error) {
	var total int64
	var err error
	if kind != "" {
		err = r.data.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM flag_terms WHERE kind = $1`, kind).Scan(&total)
	} else {
		err = r.data.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM flag_terms`).Scan(&total)
	}
	return total, err
}

func scanFlagTerm(row pgx.Row) (*biz.FlagTerm, error) {
	var t biz.FlagTerm
	err := row.Scan(&t.ID, &t.Term, &t.Kind, &t.Weight, &t.AddedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectFlagTerms(rows pgx.Rows) ([]*biz.FlagTerm, error) {
	terms := make([]*biz.FlagTerm, 0)
	for rows.Next() {
		t, err := scanFlagTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}
