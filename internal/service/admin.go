package service

import (
	"time"

	"loopmod/internal/biz"
	"loopmod/internal/pkg/pagination"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// AdminService exposes flagged-term management and accuracy reporting.
type AdminService struct {
	terms    *biz.TermUsecase
	accuracy *biz.AccuracyUsecase
	log      *log.Helper
}

// NewAdminService creates a new AdminService.
func NewAdminService(terms *biz.TermUsecase, accuracy *biz.AccuracyUsecase, logger log.Logger) *AdminService {
	return &AdminService{
		terms:    terms,
		accuracy: accuracy,
		log:      log.NewHelper(logger),
	}
}

// AddTermRequest is the flagged-term creation payload.
type AddTermRequest struct {
	Term    string  `json:"term"`
	Kind    string  `json:"kind"`
	Weight  float64 `json:"weight"`
	AddedBy string  `json:"added_by"`
}

// FlagTermReply is one flagged term on the wire.
type FlagTermReply struct {
	ID        int64     `json:"id"`
	Term      string    `json:"term"`
	Kind      string    `json:"kind"`
	Weight    float64   `json:"weight"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFlagTermReply(t *biz.FlagTerm) *FlagTermReply {
	return &FlagTermReply{
		ID:        t.ID,
		Term:      t.Term,
		Kind:      t.Kind,
		Weight:    t.Weight,
		AddedBy:   t.AddedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// RebuildReply reports the term count after a matcher rebuild.
type RebuildReply struct {
	Terms int `json:"terms"`
}

// RegisterRoutes mounts the admin API on the HTTP server.
func (s *AdminService) RegisterRoutes(r *http.Router) {
	r.POST("/v1/admin/terms", s.addTerm)
	r.GET("/v1/admin/terms", s.listTerms)
	r.DELETE("/v1/admin/terms/{term}", s.removeTerm)
	r.POST("/v1/admin/terms/rebuild", s.rebuild)
	r.GET("/v1/admin/accuracy", s.accuracyStats)
}

func (s *AdminService) addTerm(ctx http.Context) error {
	var req AddTermRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	created, err := s.terms.AddTerm(ctx, req.Term, req.Kind, req.AddedBy, req.Weight)
	if err != nil {
		return err
	}
	return ctx.Result(200, toFlagTermReply(created))
}

type listTermsQuery struct {
	Kind     string `json:"kind"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func (s *AdminService) listTerms(ctx http.Context) error {
	var q listTermsQuery
	if err := ctx.BindQuery(&q); err != nil {
		return err
	}

	page := pagination.NewPageRequest(q.Page, q.PageSize)
	terms, total, err := s.terms.ListTerms(ctx, q.Kind, int32(page.Limit()), int32(page.Offset()))
	if err != nil {
		return err
	}

	items := make([]*FlagTermReply, len(terms))
	for i, t := range terms {
		items[i] = toFlagTermReply(t)
	}
	return ctx.Result(200, pagination.NewPageResponse(items, page, total))
}

func (s *AdminService) removeTerm(ctx http.Context) error {
	if err := s.terms.RemoveTerm(ctx, ctx.Vars().Get("term")); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"deleted": true})
}

func (s *AdminService) rebuild(ctx http.Context) error {
	count, err := s.terms.RebuildMatcher(ctx)
	if err != nil {
		return err
	}
	return ctx.Result(200, &RebuildReply{Terms: count})
}

func (s *AdminService) accuracyStats(ctx http.Context) error {
	stats, err := s.accuracy.Stats(ctx)
	if err != nil {
		return err
	}
	return ctx.Result(200, stats)
}
