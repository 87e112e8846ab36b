package pagination

import "context"

// SliceCollection adapts an in-memory slice to Collection.
// The slice is read, never modified.
type SliceCollection[T any] struct {
	items []T
}

// NewSliceCollection wraps items, which must already be in display order
func NewSliceCollection[T any](items []T) *SliceCollection[T] {
	return &SliceCollection[T]{items: items}
}

// Count returns the number of wrapped items
func (c *SliceCollection[T]) Count(ctx context.Context) (int, error) {
	return len(c.items), nil
}

// Slice returns a copy of items[offset:offset+limit], clamped to the slice bounds
func (c *SliceCollection[T]) Slice(ctx context.Context, offset, limit int) ([]T, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(c.items) || limit <= 0 {
		return []T{}, nil
	}

	end := offset + limit
	if end > len(c.items) {
		end = len(c.items)
	}

	out := make([]T, end-offset)
	copy(out, c.items[offset:end])
	return out, nil
}
