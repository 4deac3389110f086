// movie-catalog/internal/domain/rating.go
package domain

// AggregatedRating holds the mean and sample count of one movie's reviews.
type AggregatedRating struct {
	MovieID       string  `json:"movieId" db:"movie_id"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
	RatingCount   int64   `json:"ratingCount" db:"rating_count"`
}

// RatingSample is the projection of a review needed for ranking.
type RatingSample struct {
	MovieID string `db:"movie_id"`
	Rating  int    `db:"rating"`
}

// RatingGroup accumulates the reviews of one movie.
type RatingGroup struct {
	MovieID string
	Sum     int64
	Count   int64
}

// Mean returns the arithmetic mean of the group. An empty group has mean 0.
func (g RatingGroup) Mean() float64 {
	if g.Count == 0 {
		return 0
	}
	return float64(g.Sum) / float64(g.Count)
}
