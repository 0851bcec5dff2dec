package kinopoisk

import (
	"context"

	"github.com/s0up4200/kinoshelf/movie"
)

// Catalog defines the catalog operations used by the browser
type Catalog interface {
	// Movies retrieves a page of movies sorted by rating, narrowed by the query filters
	Movies(ctx context.Context, q MoviesQuery) (*MoviePage, error)

	// Search retrieves a page of movies matching a free-text query
	Search(ctx context.Context, q SearchQuery) (*MoviePage, error)

	// MovieByID retrieves a single movie
	MovieByID(ctx context.Context, id int) (movie.Movie, error)
}

// Pinger verifies the catalog is reachable with the configured key
type Pinger interface {
	Ping(ctx context.Context) error
}
