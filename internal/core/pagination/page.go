package pagination

// Page is one bounded window of a collection plus the metadata needed to navigate it
type Page[T any] struct {
	Items       []T  `json:"items"`
	PageSize    int  `json:"pageSize"`
	Number      int  `json:"page"`
	NumPages    int  `json:"numPages"`
	TotalItems  int  `json:"totalItems"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// Len returns the number of items on this page
func (p *Page[T]) Len() int {
	return len(p.Items)
}

// HasOtherPages reports whether the collection spans more than one page
func (p *Page[T]) HasOtherPages() bool {
	return p.HasPrevious || p.HasNext
}

// NextPageNumber returns the following page number, or 0 on the last page
func (p *Page[T]) NextPageNumber() int {
	if !p.HasNext {
		return 0
	}
	return p.Number + 1
}

// PreviousPageNumber returns the preceding page number, or 0 on the first page
func (p *Page[T]) PreviousPageNumber() int {
	if !p.HasPrevious {
		return 0
	}
	return p.Number - 1
}

// StartIndex returns the 1-based position of the first item on this page, 0 if empty
func (p *Page[T]) StartIndex() int {
	if p.TotalItems == 0 {
		return 0
	}
	return (p.Number-1)*p.PageSize + 1
}

// EndIndex returns the 1-based position of the last item on this page, 0 if empty
func (p *Page[T]) EndIndex() int {
	if p.TotalItems == 0 {
		return 0
	}
	return p.StartIndex() + len(p.Items) - 1
}

// PageRange returns every page number, 1 through NumPages
func (p *Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
