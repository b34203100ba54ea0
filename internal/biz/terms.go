package biz

import (
	"context"
	"time"

	"loopmod/internal/pkg/analyzer"
	"loopmod/internal/pkg/filter"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// ErrInvalidTermKind is returned for an unknown flag-term kind.
var ErrInvalidTermKind = errors.BadRequest("INVALID_TERM_KIND", "invalid term kind")

// FlagTerm is a flagged term used by the local matching pipeline.
type FlagTerm struct {
	ID        int64
	Term      string
	Kind      string // abusive | hate | cringe
	Weight    float64
	AddedBy   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FlagTermRepo is a FlagTerm repository interface.
type FlagTermRepo interface {
	Create(ctx context.Context, term *FlagTerm) (*FlagTerm, error)
	Delete(ctx context.Context, term string) error
	List(ctx context.Context, kind string, limit, offset int32) ([]*FlagTerm, error)
	ListAll(ctx context.Context) ([]*FlagTerm, error)
	Count(ctx context.Context, kind string) (int64, error)
}

// TermUsecase manages the flagged-term lists and keeps the matcher in sync.
type TermUsecase struct {
	repo    FlagTermRepo
	matcher *analyzer.TermMatcher
	log     *log.Helper
}

// NewTermUsecase creates a new TermUsecase.
func NewTermUsecase(repo FlagTermRepo, matcher *analyzer.TermMatcher, logger log.Logger) *TermUsecase {
	return &TermUsecase{
		repo:    repo,
		matcher: matcher,
		log:     log.NewHelper(logger),
	}
}

func validTermKind(kind string) bool {
	switch kind {
	case analyzer.TermKindAbusive, analyzer.TermKindHate, analyzer.TermKindCringe:
		return true
	}
	return false
}

// AddTerm adds a flagged term and registers it in the matcher prefilter.
func (uc *TermUsecase) AddTerm(ctx context.Context, term, kind, addedBy string, weight float64) (*FlagTerm, error) {
	if !validTermKind(kind) {
		return nil, ErrInvalidTermKind
	}
	if weight <= 0 || weight > 1 {
		weight = 1.0
	}

	created, err := uc.repo.Create(ctx, &FlagTerm{
		Term:    term,
		Kind:    kind,
		Weight:  weight,
		AddedBy: addedBy,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.matcher.Add(ctx, term); err != nil {
		return nil, err
	}

	uc.log.Infof("AddTerm: %s kind=%s weight=%.2f", term, kind, weight)
	return created, nil
}

// RemoveTerm removes a flagged term. The bloom prefilter keeps the stale
// entry until the next rebuild; the automaton is rebuilt immediately.
func (uc *TermUsecase) RemoveTerm(ctx context.Context, term string) error {
	if err := uc.repo.Delete(ctx, term); err != nil {
		return err
	}
	_, err := uc.RebuildMatcher(ctx)
	return err
}

// ListTerms lists flagged terms, optionally filtered by kind.
func (uc *TermUsecase) ListTerms(ctx context.Context, kind string, limit, offset int32) ([]*FlagTerm, int64, error) {
	if kind != "" && !validTermKind(kind) {
		return nil, 0, ErrInvalidTermKind
	}
	terms, err := uc.repo.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.repo.Count(ctx, kind)
	if err != nil {
		return nil, 0, err
	}
	return terms, total, nil
}

// RebuildMatcher rebuilds the matching automaton and bloom prefilter from the
// database, returning the number of terms loaded.
func (uc *TermUsecase) RebuildMatcher(ctx context.Context) (int, error) {
	uc.log.Info("rebuilding term matcher from database")

	terms, err := uc.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	patterns := make([]filter.TermPattern, len(terms))
	for i, t := range terms {
		patterns[i] = filter.TermPattern{
			Term:   t.Term,
			Kind:   t.Kind,
			Weight: t.Weight,
		}
	}

	if err := uc.matcher.Rebuild(ctx, patterns); err != nil {
		return 0, err
	}

	uc.log.Infof("rebuilt term matcher with %d terms", len(patterns))
	return len(patterns), nil
}
