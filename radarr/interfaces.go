package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// API is the subset of the starr Radarr client used for exporting movies
type API interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error)

	// Health check
	Ping() error
}

// Options controls how new movies are added to the library
type Options struct {
	QualityProfileID int64
	RootFolder       string
	SearchOnAdd      bool
}
