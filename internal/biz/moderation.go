package biz

import (
	"context"
	"time"

	"loopmod/internal/pkg/analyzer"
	"loopmod/internal/pkg/pagination"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound is returned when a moderation log entry does not exist.
	ErrRecordNotFound = errors.NotFound("MODERATION_LOG_NOT_FOUND", "moderation log not found")
	// ErrAlreadyReviewed is returned when a log entry was already reviewed.
	ErrAlreadyReviewed = errors.Conflict("MODERATION_LOG_ALREADY_REVIEWED", "moderation log already reviewed")
	// ErrInvalidReviewResult is returned for an unknown review result value.
	ErrInvalidReviewResult = errors.BadRequest("INVALID_REVIEW_RESULT", "invalid review result")
)

// Content types moderated by the Loop platform.
const (
	ContentTypePost      = "post"
	ContentTypeMaxedLoop = "maxed_loop"
	ContentTypeStory     = "story"
	ContentTypeComment   = "comment"
)

// ModerationRecord is one append-only moderation log entry. It is created
// once per submitted content item; only the review fields may change later,
// through a single human reviewer action.
type ModerationRecord struct {
	ID                 string
	ContentID          string
	ContentType        string
	OverallSafetyScore float64
	Decision           Decision
	AgeRestriction     AgeRestriction
	Cringe             CringeResult

	Visual   *analyzer.VisualAnalysis
	Audio    *analyzer.AudioAnalysis
	Metadata *analyzer.MetadataAnalysis

	Reviewed     bool
	ReviewResult string
	ReviewedBy   string
	ReviewedAt   *time.Time

	CreatedAt time.Time
}

// ModerationLogRepo persists moderation log entries.
type ModerationLogRepo interface {
	Create(ctx context.Context, record *ModerationRecord) error
	Get(ctx context.Context, id string) (*ModerationRecord, error)
	// List returns entries filtered by decision ("" = all), newest first.
	List(ctx context.Context, decision Decision, limit, offset int32) ([]*ModerationRecord, int64, error)
	// Review marks the entry reviewed exactly once. Returns
	// ErrAlreadyReviewed when the entry was reviewed before.
	Review(ctx context.Context, id, result, reviewer string) (*ModerationRecord, error)
}

// SubmitRequest describes one content item to moderate.
type SubmitRequest struct {
	ContentID   string
	ContentType string
	Title       string
	Description string
	Tags        []string
	Transcript  string
	VisualURLs  []string
	AudioURL    string
}

// ModerationUsecase orchestrates content moderation: modality analysis,
// decision aggregation and persistence of the resulting log entry.
type ModerationUsecase struct {
	visual   *analyzer.VisualAnalyzer
	audio    *analyzer.AudioAnalyzer
	metadata *analyzer.MetadataAnalyzer
	repo     ModerationLogRepo
	accuracy *AccuracyUsecase
	log      *log.Helper
}

// NewModerationUsecase creates a new ModerationUsecase.
func NewModerationUsecase(
	visual *analyzer.VisualAnalyzer,
	audio *analyzer.AudioAnalyzer,
	metadata *analyzer.MetadataAnalyzer,
	repo ModerationLogRepo,
	accuracy *AccuracyUsecase,
	logger log.Logger,
) *ModerationUsecase {
	return &ModerationUsecase{
		visual:   visual,
		audio:    audio,
		metadata: metadata,
		repo:     repo,
		accuracy: accuracy,
		log:      log.NewHelper(logger),
	}
}

// Moderate analyzes one content item, aggregates the decision and appends the
// result to the moderation log.
func (uc *ModerationUsecase) Moderate(ctx context.Context, req *SubmitRequest) (*ModerationRecord, error) {
	uc.log.Debugf("Moderate: contentID=%s type=%s visuals=%d", req.ContentID, req.ContentType, len(req.VisualURLs))

	visual := uc.visual.Analyze(ctx, req.VisualURLs)
	audio := uc.audio.Analyze(ctx, req.AudioURL, req.Transcript)
	metadata := uc.metadata.Analyze(ctx, req.Title, req.Description, req.Tags)

	score, decision, age := Decide(visual, audio, metadata)

	record := &ModerationRecord{
		ID:                 uuid.NewString(),
		ContentID:          req.ContentID,
		ContentType:        req.ContentType,
		OverallSafetyScore: score,
		Decision:           decision,
		AgeRestriction:     age,
		Cringe:             ScoreCringe(req.Transcript, req.Title, metadata),
		Visual:             visual,
		Audio:              audio,
		Metadata:           metadata,
		CreatedAt:          time.Now(),
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	uc.log.Infof("moderated contentID=%s decision=%s score=%.2f", req.ContentID, decision, score)
	return record, nil
}

// Get returns one moderation log entry.
func (uc *ModerationUsecase) Get(ctx context.Context, id string) (*ModerationRecord, error) {
	record, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

// List returns moderation log entries filtered by decision.
func (uc *ModerationUsecase) List(ctx context.Context, decision Decision, page *pagination.PageRequest) ([]*ModerationRecord, int64, error) {
	if decision != "" && !decision.Valid() {
		return nil, 0, errors.BadRequest("INVALID_DECISION", "unknown decision filter")
	}
	return uc.repo.List(ctx, decision, int32(page.Limit()), int32(page.Offset()))
}

// Review records a human reviewer's verdict on a log entry and feeds the
// outcome into accuracy tracking.
func (uc *ModerationUsecase) Review(ctx context.Context, id, result, reviewer string) (*ModerationRecord, error) {
	if !Decision(result).Valid() {
		return nil, ErrInvalidReviewResult
	}

	record, err := uc.repo.Review(ctx, id, result, reviewer)
	if err != nil {
		return nil, err
	}

	confirmed := record.Decision == Decision(result)
	if err := uc.accuracy.RecordReview(ctx, record.Decision, confirmed); err != nil {
		uc.log.Warnf("failed to record review outcome: %v", err)
	}

	return record, nil
}
