package dto

// PageRequest selects one page of a list; Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of rows before the page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page is a paginated list response.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage wraps results; link renders the URL of another page number.
func NewPage[T any](results []T, count int64, req PageRequest, link func(page int) string) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: count, Results: results}
	if req.Page > 1 {
		prev := link(req.Page - 1)
		p.Previous = &prev
	}
	if req.Limit > 0 && int64(req.Page*req.Limit) < count {
		next := link(req.Page + 1)
		p.Next = &next
	}
	return p
}
