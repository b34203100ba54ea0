package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loopmod/internal/biz"
	"loopmod/internal/pkg/analyzer"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
)

type moderationLogRepo struct {
	data *Data
	log  *log.Helper
}

// NewModerationLogRepo creates a new ModerationLogRepo.
func NewModerationLogRepo(data *Data, logger log.Logger) biz.ModerationLogRepo {
	return &moderationLogRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

const moderationLogColumns = `id, content_id, content_type, overall_safety_score, decision,
	age_restricted, minimum_age, age_reason, cringe,
	visual_analysis, audio_analysis, metadata_analysis,
	reviewed, review_result, reviewed_by, reviewed_at, created_at`

func (r *moderationLogRepo) Create(ctx context.Context, record *biz.ModerationRecord) error {
	cringe, err := json.Marshal(record.Cringe)
	if err != nil {
		return fmt.Errorf("failed to encode cringe result: %w", err)
	}
	visual, err := marshalAnalysis(record.Visual)
	if err != nil {
		return err
	}
	audio, err := marshalAnalysis(record.Audio)
	if err != nil {
		return err
	}
	metadata, err := marshalAnalysis(record.Metadata)
	if err != nil {
		return err
	}

	_, err = r.data.Pool.Exec(ctx, `
		INSERT INTO moderation_logs (
			id, content_id, content_type, overall_safety_score, decision,
			age_restricted, minimum_age, age_reason, cringe,
			visual_analysis, audio_analysis, metadata_analysis, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.ID, record.ContentID, record.ContentType, record.OverallSafetyScore, string(record.Decision),
		record.AgeRestriction.IsRestricted, record.AgeRestriction.MinimumAge, record.AgeRestriction.Reason, cringe,
		visual, audio, metadata, record.CreatedAt,
	)
	return err
}

func (r *moderationLogRepo) Get(ctx context.Context, id string) (*biz.ModerationRecord, error) {
	row := r.data.Pool.QueryRow(ctx,
		`SELECT `+moderationLogColumns+` FROM moderation_logs WHERE id = $1`, id)

	record, err := scanModerationLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *moderationLogRepo) List(ctx context.Context, decision biz.Decision, limit, offset int32) ([]*biz.ModerationRecord, int64, error) {
	var (
		rows  pgx.Rows
		err   error
		total int64
	)

	if decision != "" {
		rows, err = r.data.Pool.Query(ctx,
			`SELECT `+moderationLogColumns+` FROM moderation_logs
			 WHERE decision = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			string(decision), limit, offset)
	} else {
		rows, err = r.data.Pool.Query(ctx,
			`SELECT `+moderationLogColumns+` FROM moderation_logs
			 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]*biz.ModerationRecord, 0, limit)
	for rows.Next() {
		record, err := scanModerationLog(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if decision != "" {
		err = r.data.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM moderation_logs WHERE decision = $1`, string(decision)).Scan(&total)
	} else {
		err = r.data.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM moderation_logs`).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *moderationLogRepo) Review(ctx context.Context, id, result, reviewer string) (*biz.ModerationRecord, error) {
	row := r.data.Pool.QueryRow(ctx, `
		UPDATE moderation_logs
		SET reviewed = TRUE, review_result = $2, reviewed_by = $3, reviewed_at = now()
		WHERE id = $1 AND reviewed = FALSE
		RETURNING `+moderationLogColumns,
		id, result, reviewer)

	record, err := scanModerationLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either missing or already reviewed; disambiguate.
		existing, gerr := r.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if existing == nil {
			return nil, biz.ErrRecordNotFound
		}
		return nil, biz.ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func marshalAnalysis(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return data, nil
}

func scanModerationLog(row pgx.Row) (*biz.ModerationRecord, error) {
	var (
		record     biz.ModerationRecord
		decision   string
		cringe     []byte
		visual     []byte
		audio      []byte
		metadata   []byte
		reviewedAt *time.Time
	)

	err := row.Scan(
		&record.ID, &record.ContentID, &record.ContentType, &record.OverallSafetyScore, &decision,
		&record.AgeRestriction.IsRestricted, &record.AgeRestriction.MinimumAge, &record.AgeRestriction.Reason, &cringe,
		&visual, &audio, &metadata,
		&record.Reviewed, &record.ReviewResult, &record.ReviewedBy, &reviewedAt, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Decision = biz.Decision(decision)
	record.ReviewedAt = reviewedAt

	if len(cringe) > 0 {
		if err := json.Unmarshal(cringe, &record.Cringe); err != nil {
			return nil, fmt.Errorf("failed to decode cringe result: %w", err)
		}
	}
	if len(visual) > 0 {
		record.Visual = &analyzer.VisualAnalysis{}
		if err := json.Unmarshal(visual, record.Visual); err != nil {
			return nil, fmt.Errorf("failed to decode visual analysis: %w", err)
		}
	}
	if len(audio) > 0 {
		record.Audio = &analyzer.AudioAnalysis{}
		if err := json.Unmarshal(audio, record.Audio); err != nil {
			return nil, fmt.Errorf("failed to decode audio analysis: %w", err)
		}
	}
	if len(metadata) > 0 {
		record.Metadata = &analyzer.MetadataAnalysis{}
		if err := json.Unmarshal(metadata, record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata analysis: %w", err)
		}
	}

	return &record, nil
}
