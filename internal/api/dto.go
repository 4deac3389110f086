package api

import (
	"movie-catalog/internal/paging"
)

// PageMeta mirrors the page block the web frontend reads.
type PageMeta struct {
	Size          int `json:"size"`
	Number        int `json:"number"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// PageResponse is the wire form of every paged listing.
type PageResponse[T any] struct {
	Content []T      `json:"content"`
	Page    PageMeta `json:"page"`
}

func toPageResponse[T any](p paging.Page[T]) PageResponse[T] {
	content := p.Items
	if content == nil {
		content = []T{}
	}
	return PageResponse[T]{
		Content: content,
		Page: PageMeta{
			Size:          p.Size,
			Number:        p.Number,
			TotalElements: p.TotalItems,
			TotalPages:    p.TotalPages,
		},
	}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}
