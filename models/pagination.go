package models

import "math"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageQuery is the common part of every paginated listing
type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps page and limit to usable values
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

// Skip is the number of documents before the requested page
func (q PageQuery) Skip() int64 {
	return int64(q.Limit) * int64(q.Page-1)
}

// PagingInfo describes where a page sits in the full result set
type PagingInfo struct {
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// Page is one page of results
type Page[T any] struct {
	Results    []T        `json:"results"`
	Pagination PagingInfo `json:"pagination"`
}

// NewPage assembles a page, never returning a nil results slice
func NewPage[T any](results []T, total int64, q PageQuery) *Page[T] {
	if results == nil {
		results = []T{}
	}
	return &Page[T]{
		Results: results,
		Pagination: PagingInfo{
			Total: total,
			Limit: q.Limit,
			Page:  q.Page,
			Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}
}
