package repository

import (
	"context"
	"errors"
	"math"

	"github.com/oksasatya/user-service-ext/internal/domain/entity"
)

var ErrNotFound = errors.New("not found")

// SortParam orders a listing; Direction is 1 for ascending, -1 for descending.
type SortParam struct {
	Field     string
	Direction int
}

type Query struct {
	Filter map[string]any
	Sort   []SortParam
	Page   int
	Limit  int
}

// MaxSkip bounds the offset a Query can produce.
const MaxSkip = math.MaxInt32

// Window normalizes Page and Limit (defaults 1 and 20) and returns the offset of
// the first item. Pages whose offset would pass MaxSkip are clamped.
func (q Query) Window() (page, limit int, skip int64) {
	page, limit = q.Page, q.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if int64(page-1) > MaxSkip/int64(limit) {
		page = int(MaxSkip/int64(limit)) + 1
	}
	return page, limit, int64(page-1) * int64(limit)
}

// Patch is a partial document applied with $set semantics.
type Patch map[string]any

type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasNext bool  `json:"hasNext"`
}

// Repository is the generic entity-repository capability keyed by identifier.
// Update returns ErrNotFound when id matches nothing; Delete reports it as false.
type Repository[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	FindWithPagination(ctx context.Context, q Query) (*Page[T], error)
	Update(ctx context.Context, id string, patch Patch) (*T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type RoleRepository = Repository[entity.Role]
