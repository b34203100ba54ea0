package pagination

import "errors"

// ErrInvalidPage indicates a malformed page request.
var ErrInvalidPage = errors.New("invalid page request")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortOrder represents sort direction.
type SortOrder string

const (
	ASC  SortOrder = "ASC"
	DESC SortOrder = "DESC"
)

// PageRequest represents an offset-based pagination request.
type PageRequest struct {
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"page_size,omitempty"`
	Order    SortOrder `json:"order,omitempty"`
}

// PageResponse represents an offset-based pagination response.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPageRequest creates a page request with defaults applied.
func NewPageRequest(page, pageSize int) *PageRequest {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &PageRequest{
		Page:     page,
		PageSize: pageSize,
		Order:    DESC,
	}
}

// GetPageSize returns the validated page size.
func (r *PageRequest) GetPageSize() int {
	if r.PageSize <= 0 || r.PageSize > MaxPageSize {
		return DefaultPageSize
	}
	return r.PageSize
}

// GetPage returns the validated page number.
func (r *PageRequest) GetPage() int {
	if r.Page < 1 {
		return 1
	}
	return r.Page
}

// Offset returns the row offset for the request.
func (r *PageRequest) Offset() int {
	return (r.GetPage() - 1) * r.GetPageSize()
}

// Limit returns the row limit for the request.
func (r *PageRequest) Limit() int {
	return r.GetPageSize()
}

// NewPageResponse assembles a response from items and a total row count.
func NewPageResponse[T any](items []T, req *PageRequest, total int64) *PageResponse[T] {
	pageSize := req.GetPageSize()
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &PageResponse[T]{
		Items:      items,
		Page:       req.GetPage(),
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
