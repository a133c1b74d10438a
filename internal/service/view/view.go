// Package view derives display slices from already-aggregated in-memory
// collections. Everything here is synchronous and allocation-light; no I/O.
//
// Order of operations is fixed: filter the full collection first, then
// paginate the filtered set. Filtering an already-paginated slice silently
// drops matches on other pages, so the API makes that shape hard to write.
package view

import "strings"

// Filter returns the records whose configured fields contain query as a
// case-insensitive substring. A record matches if any field matches. The
// empty query matches everything. Input order is preserved and the input
// slice is never mutated.
func Filter[T any](items []T, query string, fields ...func(T) string) []T {
	if query == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Suggest applies the same substring semantics to a closed vocabulary for
// autocomplete. Matches come back in vocabulary order, not alphabetical.
func Suggest(vocabulary []string, query string) []string {
	needle := strings.ToLower(query)
	matches := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		if strings.Contains(strings.ToLower(term), needle) {
			matches = append(matches, term)
		}
	}
	return matches
}

// Page is one display slice of a filtered collection
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// Paginate slices items into 1-based pages of pageSize. An out-of-range
// page number clamps to the nearest valid page instead of erroring; the
// last page may be partially filled. A non-positive pageSize yields a
// single page holding everything.
func Paginate[T any](items []T, pageSize, pageNumber int) Page[T] {
	total := len(items)

	if pageSize < 1 {
		return Page[T]{
			Items:      items,
			Number:     1,
			Size:       total,
			TotalItems: total,
			TotalPages: 1,
		}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     pageNumber,
		Size:       pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
