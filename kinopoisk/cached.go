package kinopoisk

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/kinoshelf/cache"
	"github.com/s0up4200/kinoshelf/movie"
)

// CachedClient keeps recently fetched movie details in memory
type CachedClient struct {
	next   Catalog
	movies *cache.LRU[int, movie.Movie]
	logger zerolog.Logger
}

// NewCachedClient wraps next with a detail cache of size entries that expire after ttl.
// A ttl of zero keeps entries until they are evicted.
func NewCachedClient(next Catalog, size int, ttl time.Duration, logger zerolog.Logger) *CachedClient {
	var opts []cache.Option
	if ttl > 0 {
		opts = append(opts, cache.WithTTL(ttl))
	}
	return &CachedClient{
		next:   next,
		movies: cache.NewLRU[int, movie.Movie](size, opts...),
		logger: logger,
	}
}

// Movies is not cached
func (c *CachedClient) Movies(ctx context.Context, q MoviesQuery) (*MoviePage, error) {
	return c.next.Movies(ctx, q)
}

// Search is not cached
func (c *CachedClient) Search(ctx context.Context, q SearchQuery) (*MoviePage, error) {
	return c.next.Search(ctx, q)
}

// MovieByID returns a cached movie when present and fetches it otherwise
func (c *CachedClient) MovieByID(ctx context.Context, id int) (movie.Movie, error) {
	if m, ok := c.movies.Get(id); ok {
		c.logger.Trace().Int("id", id).Msg("Movie cache hit")
		return m, nil
	}

	m, err := c.next.MovieByID(ctx, id)
	if err != nil {
		return movie.Movie{}, err
	}

	c.movies.Put(id, m)
	return m, nil
}

// Forget drops id from the cache
func (c *CachedClient) Forget(id int) {
	c.movies.Remove(id)
}

// Ping forwards to the wrapped catalog when it supports it
func (c *CachedClient) Ping(ctx context.Context) error {
	if p, ok := c.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
