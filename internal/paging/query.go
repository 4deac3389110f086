package paging

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"movie-catalog/internal/domain"
)

// Defaults configures how one operation reads page parameters from a query string.
type Defaults struct {
	Size     int
	MaxSize  int
	Sortable []string
	Sort     []Sort
}

// ParseQuery reads page, size and sort (Spring style "field[,asc|desc]", repeatable).
// Unparsable or out-of-range page and size fall back to the defaults and size is
// clamped to MaxSize. Unknown sort fields or directions are rejected.
func ParseQuery(q url.Values, d Defaults) (Request, error) {
	req := Request{Number: 0, Size: d.Size}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		req.Number = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		req.Size = v
	}
	if d.MaxSize > 0 && req.Size > d.MaxSize {
		req.Size = d.MaxSize
	}
	if req.Size <= 0 {
		req.Size = 1
	}

	for _, raw := range q["sort"] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := parseSort(raw, d.Sortable)
		if err != nil {
			return Request{}, err
		}
		req.Sort = append(req.Sort, s)
	}
	return req.WithDefaultSort(d.Sort...), nil
}

func parseSort(raw string, sortable []string) (Sort, error) {
	parts := strings.Split(raw, ",")
	s := Sort{Field: strings.TrimSpace(parts[0])}
	if len(parts) > 2 {
		return Sort{}, domain.NewValidationError("sort", "format=field,direction")
	}
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "asc", "":
		case "desc":
			s.Descending = true
		default:
			return Sort{}, domain.NewValidationError("sort", "oneof=asc desc")
		}
	}
	if !slices.Contains(sortable, s.Field) {
		return Sort{}, domain.NewValidationError("sort", "oneof="+strings.Join(sortable, " "))
	}
	return s, nil
}
