// movie-catalog/internal/catalog/rating.go
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/paging"
	"movie-catalog/internal/store"
)

var tracer = otel.Tracer("movie-catalog/internal/catalog")

// RatingAggregator ranks movies by the mean of their review ratings. The mean
// is recomputed on every call and never written back.
type RatingAggregator struct {
	source store.RatingSource
	logger *slog.Logger
}

func NewRatingAggregator(source store.RatingSource, logger *slog.Logger) *RatingAggregator {
	return &RatingAggregator{source: source, logger: logger}
}

// GroupRatings buckets samples by movie. Order of the result is unspecified.
func GroupRatings(samples []domain.RatingSample) []domain.RatingGroup {
	idx := make(map[string]int)
	var groups []domain.RatingGroup
	for _, s := range samples {
		i, ok := idx[s.MovieID]
		if !ok {
			i = len(groups)
			idx[s.MovieID] = i
			groups = append(groups, domain.RatingGroup{MovieID: s.MovieID})
		}
		groups[i].Sum += int64(s.Rating)
		groups[i].Count++
	}
	return groups
}

// RankGroups orders groups by mean descending, then by movie id ascending.
func RankGroups(groups []domain.RatingGroup) {
	slices.SortFunc(groups, func(a, b domain.RatingGroup) int {
		if c := cmp.Compare(b.Mean(), a.Mean()); c != 0 {
			return c
		}
		return cmp.Compare(a.MovieID, b.MovieID)
	})
}

// TopRated returns one page of the ranked view. Offsets count ranked movies, and
// the total is the number of rated movies even if some no longer resolve.
func (a *RatingAggregator) TopRated(ctx context.Context, req paging.Request) (paging.Page[*domain.RankedMovie], error) {
	ctx, span := tracer.Start(ctx, "RatingAggregator.TopRated")
	defer span.End()
	span.SetAttributes(attribute.Int("page.number", req.Number), attribute.Int("page.size", req.Size))

	if ranker, ok := a.source.(store.RatingRanker); ok {
		items, total, err := ranker.RankMoviesByRating(ctx, req)
		if err != nil {
			return paging.Page[*domain.RankedMovie]{}, fmt.Errorf("rank movies: %w", err)
		}
		return paging.NewPage(items, req, total), nil
	}

	samples, err := a.source.RatingSamples(ctx)
	if err != nil {
		return paging.Page[*domain.RankedMovie]{}, fmt.Errorf("read ratings: %w", err)
	}
	groups := GroupRatings(samples)
	RankGroups(groups)

	start, end := req.Window(len(groups))
	selected := groups[start:end]
	ids := make([]string, len(selected))
	for i, g := range selected {
		ids[i] = g.MovieID
	}
	movies, err := a.source.MoviesByIDs(ctx, ids)
	if err != nil {
		return paging.Page[*domain.RankedMovie]{}, fmt.Errorf("join movies: %w", err)
	}

	items := make([]*domain.RankedMovie, 0, len(selected))
	for _, g := range selected {
		m, ok := movies[g.MovieID]
		if !ok {
			a.logger.DebugContext(ctx, "Rated movie has no record, dropped from ranking", slog.String("movieID", g.MovieID))
			continue
		}
		items = append(items, &domain.RankedMovie{Movie: *m, AverageRating: g.Mean()})
	}
	return paging.NewPage(items, req, len(groups)), nil
}
