// Package paging filters, sorts and slices in-memory result sets into pages.
package paging

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"spartanfitness/api/internal/domain"
)

// Sort keys accepted in the `s` query parameter.
const (
	SortName    = "name"
	SortCreated = "created"
	SortUpdated = "updated"
)

// Orders accepted in the `o` query parameter.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Item is what the resolver needs from an entity.
type Item interface {
	SortName() string
	Created() time.Time
	Updated() time.Time
	Matches(query string) bool
}

// Query holds the optional paging parameters of a list request.
// Nil pointers mean "not supplied".
type Query struct {
	PageSize   *int
	PageNumber *int
	Sort       string
	Order      string
	Search     string
}

// HasSearch reports whether a non-blank search query was supplied.
func (q Query) HasSearch() bool {
	return strings.TrimSpace(q.Search) != ""
}

// Page is one slice of a filtered, sorted result set.
type Page[T any] struct {
	Items      []T
	PageNumber int
	PageCount  int
}

var (
	ErrInvalidPageSize   = domain.Validation("Page.InvalidSize", "Page size must be greater than 0")
	ErrInvalidPageNumber = domain.Validation("Page.InvalidNumber", "Page number must be greater than 0")
)

// Resolve produces the requested page of items. items is not modified.
func Resolve[T Item](items []T, q Query) (Page[T], error) {
	if q.PageSize != nil && *q.PageSize < 1 {
		return Page[T]{}, ErrInvalidPageSize
	}
	pageNumber := 1
	if q.PageNumber != nil {
		pageNumber = *q.PageNumber
	}
	if pageNumber < 1 {
		return Page[T]{}, ErrInvalidPageNumber
	}

	filtered := Filter(items, q.Search)
	Sort(filtered, q.Sort, q.Order)

	total := len(filtered)
	pageCount := 0
	switch {
	case q.PageSize == nil:
		if total > 0 {
			pageCount = 1
		}
	default:
		pageCount = total / *q.PageSize
		if total%*q.PageSize != 0 {
			pageCount++
		}
	}

	if !(pageNumber == 1 && pageCount == 0) && pageNumber > pageCount {
		return Page[T]{}, domain.ErrPageNotFound
	}

	if q.PageSize == nil {
		return Page[T]{Items: filtered, PageNumber: pageNumber, PageCount: pageCount}, nil
	}

	start := (pageNumber - 1) * *q.PageSize
	end := total
	if *q.PageSize < total-start {
		end = start + *q.PageSize
	}
	return Page[T]{
		Items:      filtered[start:end],
		PageNumber: pageNumber,
		PageCount:  pageCount,
	}, nil
}

// Filter returns a new slice with the items matching query. A blank query keeps everything.
func Filter[T Item](items []T, query string) []T {
	query = strings.TrimSpace(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if query == "" || it.Matches(query) {
			out = append(out, it)
		}
	}
	return out
}

// CompareNames orders names case-insensitively. Names equal after folding
// fall back to a byte comparison so the order stays total.
func CompareNames(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// Sort orders items in place. An unknown or empty key falls back to
// newest-created first, whatever the requested order.
func Sort[T Item](items []T, key, order string) {
	asc := order == OrderAsc

	var compare func(a, b T) int
	switch key {
	case SortName:
		compare = func(a, b T) int { return CompareNames(a.SortName(), b.SortName()) }
	case SortCreated:
		compare = func(a, b T) int { return a.Created().Compare(b.Created()) }
	case SortUpdated:
		compare = func(a, b T) int { return a.Updated().Compare(b.Updated()) }
	default:
		compare = func(a, b T) int { return a.Created().Compare(b.Created()) }
		asc = false
	}

	if asc {
		slices.SortStableFunc(items, compare)
		return
	}
	slices.SortStableFunc(items, func(a, b T) int { return compare(b, a) })
}
