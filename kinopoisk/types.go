package kinopoisk

import "github.com/s0up4200/kinoshelf/movie"

// MoviesQuery narrows the rating-sorted movie list. Blank fields are not sent.
type MoviesQuery struct {
	Page      int
	Limit     int
	Year      string
	MinRating string
	Genre     string
}

// SearchQuery is a free-text search request
type SearchQuery struct {
	Page  int
	Limit int
	Query string
}

// MoviePage is one page of catalog results
type MoviePage struct {
	Movies []movie.Movie
	Total  int
	Limit  int
	Page   int
	Pages  int
}

// movieResponse is the paged envelope returned by the list and search endpoints
type movieResponse struct {
	Docs  []movieDTO `json:"docs"`
	Total int        `json:"total"`
	Limit int        `json:"limit"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}

// movieDTO is a catalog movie. Everything except the id may be null.
type movieDTO struct {
	ID              int         `json:"id"`
	Name            *string     `json:"name"`
	AlternativeName *string     `json:"alternativeName"`
	Year            *int        `json:"year"`
	Rating          *ratingDTO  `json:"rating"`
	Poster          *posterDTO  `json:"poster"`
	Genres          []namedDTO  `json:"genres"`
	Countries       []namedDTO  `json:"countries"`
	Persons         []personDTO `json:"persons"`
	Description     *string     `json:"description"`
	ExternalID      *externalID `json:"externalId"`
}

type ratingDTO struct {
	KP   *float64 `json:"kp"`
	IMDB *float64 `json:"imdb"`
}

type posterDTO struct {
	URL        *string `json:"url"`
	PreviewURL *string `json:"previewUrl"`
}

type namedDTO struct {
	Name *string `json:"name"`
}

type personDTO struct {
	ID           int     `json:"id"`
	Name         *string `json:"name"`
	Profession   *string `json:"profession"`
	EnProfession *string `json:"enProfession"`
}

type externalID struct {
	IMDB *string `json:"imdb"`
	TMDB *int64  `json:"tmdb"`
}
