// Package pagination provides page/sort helpers for list endpoints. Sorting
// happens in-process over repository snapshots; list sizes in this system are
// back-office scale, not event-stream scale.
package pagination

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Parameters carries the _page, _size and _order query values.
type Parameters struct {
	Page     int
	PageSize int
	OrderBy  string
}

// ParseQuery reads pagination parameters from a query string, clamping out
// of range values to the defaults.
func ParseQuery(query url.Values) Parameters {
	params := Parameters{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		OrderBy:  strings.TrimSpace(query.Get("_order")),
	}
	if page, err := strconv.Atoi(query.Get("_page")); err == nil && page > 0 {
		params.Page = page
	}
	if size, err := strconv.Atoi(query.Get("_size")); err == nil && size > 0 {
		params.PageSize = size
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}
	return params
}

// Result is one page of a larger list.
type Result[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"total_items"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// SortKey is one segment of an _order expression, e.g. "price desc".
type SortKey struct {
	Field      string
	Descending bool
}

// ParseOrderBy splits "field desc, field2 asc" into sort keys. Unknown
// fields are the caller's problem; comparators simply ignore them.
func ParseOrderBy(orderBy string) []SortKey {
	if strings.TrimSpace(orderBy) == "" {
		return nil
	}
	segments := strings.Split(orderBy, ",")
	keys := make([]SortKey, 0, len(segments))
	for _, segment := range segments {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		key := SortKey{Field: fields[0]}
		if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
			key.Descending = true
		}
		keys = append(keys, key)
	}
	return keys
}

// Comparator compares two items on a named field. It returns 0 when the
// field is unknown so that key's segment has no effect.
type Comparator[T any] func(field string, a, b T) int

// Apply sorts items by the order expression and returns the requested page.
// The input slice is sorted in place; callers pass snapshots.
func Apply[T any](items []T, params Parameters, compare Comparator[T]) Result[T] {
	keys := ParseOrderBy(params.OrderBy)
	if len(keys) > 0 && compare != nil {
		sort.SliceStable(items, func(i, j int) bool {
			for _, key := range keys {
				c := compare(key.Field, items[i], items[j])
				if c == 0 {
					continue
				}
				if key.Descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	total := len(items)
	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (total + params.PageSize - 1) / params.PageSize
	}

	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return Result[T]{
		Items:       items[start:end],
		TotalItems:  total,
		CurrentPage: params.Page,
		TotalPages:  totalPages,
	}
}
