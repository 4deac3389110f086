// Package paging holds the offset/limit page semantics shared by every paged query.
package paging

import (
	"errors"
	"math"
	"slices"
)

// Sort orders a result set by one field.
type Sort struct {
	Field      string
	Descending bool
}

// Asc and Desc build single-field sort keys.
func Asc(field string) Sort  { return Sort{Field: field} }
func Desc(field string) Sort { return Sort{Field: field, Descending: true} }

// Request identifies one page of an ordered result set.
// Number is zero-based.
type Request struct {
	Number int
	Size   int
	Sort   []Sort
}

var (
	ErrNegativePage = errors.New("page number must be >= 0")
	ErrPageSize     = errors.New("page size must be > 0")
)

// NewRequest validates number and size.
func NewRequest(number, size int, sorts ...Sort) (Request, error) {
	if number < 0 {
		return Request{}, ErrNegativePage
	}
	if size <= 0 {
		return Request{}, ErrPageSize
	}
	return Request{Number: number, Size: size, Sort: sorts}, nil
}

// Offset is the number of items skipped before this page. It saturates
// at math.MaxInt instead of overflowing.
func (r Request) Offset() int {
	if r.Number <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Number > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Number * r.Size
}

// Window returns the half-open [start, end) range of this page within total items.
// A page beyond the data yields start == end == total.
func (r Request) Window(total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	start = r.Offset()
	if start >= total {
		return total, total
	}
	end = total
	if r.Size > 0 && r.Size < total-start {
		end = start + r.Size
	}
	return start, end
}

// WithDefaultSort returns r with sorts applied when r carries none.
func (r Request) WithDefaultSort(sorts ...Sort) Request {
	if len(r.Sort) == 0 {
		r.Sort = slices.Clone(sorts)
	}
	return r
}

// Page is one slice of an ordered result set plus the metadata to locate it.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// NewPage wraps items already cut to the requested window.
func NewPage[T any](items []T, req Request, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Number:     req.Number,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: TotalPages(total, req.Size),
	}
}

// Slice cuts the requested page out of a fully ordered slice.
func Slice[T any](all []T, req Request) Page[T] {
	start, end := req.Window(len(all))
	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPage(items, req, len(all))
}

// Map converts page items, keeping the metadata.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = f(it)
	}
	return Page[U]{
		Items:      out,
		Number:     p.Number,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

// TotalPages is ceil(total/size), and 0 for an empty set.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total-1)/size + 1
}
