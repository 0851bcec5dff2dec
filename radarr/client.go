package radarr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// ErrInvalidConfig is returned when the client cannot be built from its settings
var ErrInvalidConfig = errors.New("invalid radarr configuration")

// Client wraps the starr Radarr client for exporting favorites
type Client struct {
	api    API
	opts   Options
	logger zerolog.Logger
}

// NewClient creates a new Radarr client and tests the connection
func NewClient(url, apiKey string, opts Options, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: api key is required", ErrInvalidConfig)
	}
	if opts.QualityProfileID <= 0 || opts.RootFolder == "" {
		return nil, fmt.Errorf("%w: quality profile and root folder are required", ErrInvalidConfig)
	}

	config := starr.New(apiKey, url, 30*time.Second)
	radarrClient := radarr.New(config)

	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, opts, logger), nil
}

// NewClientWithAPI creates a client over an existing API implementation
func NewClientWithAPI(api API, opts Options, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		opts:   opts,
		logger: logger.With().Str("component", "radarr").Logger(),
	}
}

// Ping checks that Radarr responds
func (c *Client) Ping() error {
	if err := c.api.Ping(); err != nil {
		return fmt.Errorf("failed to reach Radarr: %w", err)
	}
	return nil
}

// FindByTMDBID returns the library movie with the given TMDB id, or nil
func (c *Client) FindByTMDBID(ctx context.Context, tmdbID int64) (*radarr.Movie, error) {
	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{TMDBID: tmdbID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up tmdb id %d: %w", tmdbID, err)
	}

	for _, m := range movies {
		if m != nil && m.TmdbID == tmdbID {
			return m, nil
		}
	}
	return nil, nil
}
