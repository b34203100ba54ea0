package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// AccuracyStats summarizes how often human reviewers confirm automated
// decisions.
type AccuracyStats struct {
	Confirmed  map[Decision]int64 `json:"confirmed"`
	Overturned map[Decision]int64 `json:"overturned"`
	Total      int64              `json:"total"`
	Accuracy   float64            `json:"accuracy"`
}

// AccuracyStore persists review-outcome counters. Injected rather than held
// as package state so metrics survive restarts and are shared across
// replicas.
type AccuracyStore interface {
	RecordOutcome(ctx context.Context, decision Decision, confirmed bool) error
	Load(ctx context.Context) (*AccuracyStats, error)
}

// AccuracyUsecase tracks decision accuracy against human review outcomes.
type AccuracyUsecase struct {
	store AccuracyStore
	log   *log.Helper
}

// NewAccuracyUsecase creates a new AccuracyUsecase.
func NewAccuracyUsecase(store AccuracyStore, logger log.Logger) *AccuracyUsecase {
	return &AccuracyUsecase{
		store: store,
		log:   log.NewHelper(logger),
	}
}

// RecordReview records whether a human review confirmed the automated decision.
func (uc *AccuracyUsecase) RecordReview(ctx context.Context, decision Decision, confirmed bool) error {
	return uc.store.RecordOutcome(ctx, decision, confirmed)
}

// Stats returns the accumulated accuracy statistics.
func (uc *AccuracyUsecase) Stats(ctx context.Context) (*AccuracyStats, error) {
	return uc.store.Load(ctx)
}
