// Package pagination splits an ordered collection into bounded, numbered pages.
//
// The page token comes straight from a query parameter and is never trusted:
// a token that is missing or not an integer selects the first page, while an
// integer outside [1, NumPages] selects the last page. Neither case is an error.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPageSize is returned when Paginate is called with a non-positive page size
var ErrInvalidPageSize = errors.New("page size must be positive")

// Collection is an ordered, countable sequence of items.
// Count and Slice must observe the same ordering for the duration of one Paginate call.
type Collection[T any] interface {
	// Count returns the total number of items in the collection
	Count(ctx context.Context) (int, error)

	// Slice returns up to limit items starting at offset, in collection order
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Paginate selects the page named by token from the collection.
// An empty token means the page parameter was absent.
func Paginate[T any](ctx context.Context, c Collection[T], pageSize int, token string) (*Page[T], error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}

	total, err := c.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}
	if total < 0 {
		total = 0
	}

	numPages := NumPages(total, pageSize)
	number := ResolvePageNumber(token, numPages)

	page := &Page[T]{
		Items:       []T{},
		PageSize:    pageSize,
		Number:      number,
		NumPages:    numPages,
		TotalItems:  total,
		HasPrevious: number > 1,
		HasNext:     number < numPages,
	}

	if total == 0 {
		return page, nil
	}

	offset := (number - 1) * pageSize
	limit := pageSize
	if offset+limit > total {
		limit = total - offset
	}

	items, err := c.Slice(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to slice collection: %w", err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	if items != nil {
		page.Items = items
	}

	return page, nil
}

// NumPages returns the number of pages needed for total items.
// An empty collection still has one (empty) page.
func NumPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ResolvePageNumber maps an untrusted page token onto [1, numPages].
//
//   - absent or non-integer token: page 1
//   - integer below 1 or above numPages (including int overflow): numPages
func ResolvePageNumber(token string, numPages int) int {
	if numPages < 1 {
		numPages = 1
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return 1
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		// An integer too large for int is still an integer: it is out of range, not malformed
		if errors.Is(err, strconv.ErrRange) {
			return numPages
		}
		return 1
	}

	if n < 1 || n > numPages {
		return numPages
	}
	return n
}
