package service

import (
	"time"

	"loopmod/internal/biz"
	"loopmod/internal/pkg/analyzer"
	"loopmod/internal/pkg/pagination"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// ModerationService exposes the content moderation API.
type ModerationService struct {
	uc  *biz.ModerationUsecase
	log *log.Helper
}

// NewModerationService creates a new ModerationService.
func NewModerationService(uc *biz.ModerationUsecase, logger log.Logger) *ModerationService {
	return &ModerationService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// SubmitRequest is the moderation submission payload.
type SubmitRequest struct {
	ContentID   string   `json:"content_id"`
	ContentType string   `json:"content_type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Transcript  string   `json:"transcript"`
	VisualURLs  []string `json:"visual_urls"`
	AudioURL    string   `json:"audio_url"`
}

// ReviewRequest is the human review payload.
type ReviewRequest struct {
	Result   string `json:"result"`
	Reviewer string `json:"reviewer"`
}

// AgeRestrictionReply mirrors biz.AgeRestriction on the wire.
type AgeRestrictionReply struct {
	IsRestricted bool   `json:"is_restricted"`
	MinimumAge   int    `json:"minimum_age"`
	Reason       string `json:"reason,omitempty"`
}

// ModerationLogReply is one moderation log entry on the wire.
type ModerationLogReply struct {
	ID                 string                     `json:"id"`
	ContentID          string                     `json:"content_id"`
	ContentType        string                     `json:"content_type"`
	OverallSafetyScore float64                    `json:"overall_safety_score"`
	Decision           string                     `json:"decision"`
	AgeRestriction     AgeRestrictionReply        `json:"age_restriction"`
	Cringe             biz.CringeResult           `json:"cringe"`
	Visual             *analyzer.VisualAnalysis   `json:"visual,omitempty"`
	Audio              *analyzer.AudioAnalysis    `json:"audio,omitempty"`
	Metadata           *analyzer.MetadataAnalysis `json:"metadata,omitempty"`
	Reviewed           bool                       `json:"reviewed"`
	ReviewResult       string                     `json:"review_result,omitempty"`
	ReviewedBy         string                     `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time                 `json:"reviewed_at,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
}

func toModerationLogReply(record *biz.ModerationRecord) *ModerationLogReply {
	return &ModerationLogReply{
		ID:                 record.ID,
		ContentID:          record.ContentID,
		ContentType:        record.ContentType,
		OverallSafetyScore: record.OverallSafetyScore,
		Decision:           record.Decision.String(),
		AgeRestriction: AgeRestrictionReply{
			IsRestricted: record.AgeRestriction.IsRestricted,
			MinimumAge:   record.AgeRestriction.MinimumAge,
			Reason:       record.AgeRestriction.Reason,
		},
		Cringe:       record.Cringe,
		Visual:       record.Visual,
		Audio:        record.Audio,
		Metadata:     record.Metadata,
		Reviewed:     record.Reviewed,
		ReviewResult: record.ReviewResult,
		ReviewedBy:   record.ReviewedBy,
		ReviewedAt:   record.ReviewedAt,
		CreatedAt:    record.CreatedAt,
	}
}

// RegisterRoutes mounts the moderation API on the HTTP server.
func (s *ModerationService) RegisterRoutes(r *http.Router) {
	r.POST("/v1/moderation", s.submit)
	r.GET("/v1/moderation", s.list)
	r.GET("/v1/moderation/{id}", s.get)
	r.POST("/v1/moderation/{id}/review", s.review)
}

func (s *ModerationService) submit(ctx http.Context) error {
	var req SubmitRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	record, err := s.uc.Moderate(ctx, &biz.SubmitRequest{
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Transcript:  req.Transcript,
		VisualURLs:  req.VisualURLs,
		AudioURL:    req.AudioURL,
	})
	if err != nil {
		return err
	}
	return ctx.Result(200, toModerationLogReply(record))
}

func (s *ModerationService) get(ctx http.Context) error {
	record, err := s.uc.Get(ctx, ctx.Vars().Get("id"))
	if err != nil {
		return err
	}
	return ctx.Result(200, toModerationLogReply(record))
}

type listQuery struct {
	Decision string `json:"decision"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func (s *ModerationService) list(ctx http.Context) error {
	var q listQuery
	if err := ctx.BindQuery(&q); err != nil {
		return err
	}

	page := pagination.NewPageRequest(q.Page, q.PageSize)
	records, total, err := s.uc.List(ctx, biz.Decision(q.Decision), page)
	if err != nil {
		return err
	}

	items := make([]*ModerationLogReply, len(records))
	for i, record := range records {
		items[i] = toModerationLogReply(record)
	}
	return ctx.Result(200, pagination.NewPageResponse(items, page, total))
}

func (s *ModerationService) review(ctx http.Context) error {
	var req ReviewRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	record, err := s.uc.Review(ctx, ctx.Vars().Get("id"), req.Result, req.Reviewer)
	if err != nil {
		return err
	}
	return ctx.Result(200, toModerationLogReply(record))
}
