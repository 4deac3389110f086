// movie-catalog/internal/domain/catalog.go
package domain

import "time"

// Kind identifies one of the persisted entity collections.
type Kind string

const (
	KindDirector Kind = "director"
	KindMovie    Kind = "movie"
	KindReview   Kind = "review"
)

func (k Kind) String() string { return string(k) }

// Director is a film director record.
type Director struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	BirthYear int    `json:"birthYear" db:"birth_year"`
	Country   string `json:"country" db:"country"`
}

// Movie is a catalog entry. DirectorID always referenced a live director at write time.
type Movie struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Genre       string `json:"genre" db:"genre"`
	ReleaseYear int    `json:"releaseYear" db:"release_year"`
	Description string `json:"description,omitempty" db:"description"`
	DirectorID  string `json:"directorId" db:"director_id"`
	ImageURL    string `json:"imageUrl,omitempty" db:"image_url"`
}

// Review is a single user rating of a movie.
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserName  string    `json:"userName" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	MovieID   string    `json:"movieId" db:"movie_id"`
}

// RankedMovie joins a movie with its computed mean rating. The mean is never persisted.
type RankedMovie struct {
	Movie
	AverageRating float64 `json:"averageRating" db:"average_rating"`
}

// CreateDirectorRequest is the body of a director create command.
// Pointer fields distinguish "absent" from the zero value.
type CreateDirectorRequest struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birthYear"`
	Country   string `json:"country"`
}

type CreateMovieRequest struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	ReleaseYear *int    `json:"releaseYear"`
	Description *string `json:"description,omitempty"`
	DirectorID  string  `json:"directorId"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type CreateReviewRequest struct {
	UserName string  `json:"userName"`
	Rating   *int    `json:"rating"`
	Comment  *string `json:"comment,omitempty"`
	MovieID  string  `json:"movieId"`
}
