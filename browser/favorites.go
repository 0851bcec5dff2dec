package browser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/live"
	"github.com/s0up4200/kinoshelf/movie"
)

// refreshConcurrency bounds parallel catalog calls during Refresh
const refreshConcurrency = 4

// FavoritesSource is the favorites store as seen by the favorites list
type FavoritesSource interface {
	Subscribe(ctx context.Context) <-chan []movie.Movie
	List() []movie.Movie
	Add(m movie.Movie) error
}

// cacheForgetter is implemented by catalogs that cache movie details
type cacheForgetter interface {
	Forget(id int)
}

// FavoritesModel mirrors the favorites store for display
type FavoritesModel struct {
	store  FavoritesSource
	logger zerolog.Logger

	movies  *live.Value[[]movie.Movie]
	loading *live.Value[bool]
}

// NewFavoritesModel creates a model that reports loading until Run sees the first list
func NewFavoritesModel(store FavoritesSource, logger zerolog.Logger) *FavoritesModel {
	return &FavoritesModel{
		store:   store,
		logger:  logger,
		movies:  live.NewValue[[]movie.Movie](nil),
		loading: live.NewValue(true),
	}
}

// Run copies every favorites list from the store until ctx is done
func (f *FavoritesModel) Run(ctx context.Context) error {
	for list := range f.store.Subscribe(ctx) {
		f.movies.Set(list)
		f.loading.Set(false)
	}
	return nil
}

// Movies returns the latest favorites list
func (f *FavoritesModel) Movies() []movie.Movie {
	return slices.Clone(f.movies.Get())
}

// Loading reports whether no list has been received yet
func (f *FavoritesModel) Loading() bool {
	return f.loading.Get()
}

// Watch streams the favorites list until ctx is done
func (f *FavoritesModel) Watch(ctx context.Context) <-chan []movie.Movie {
	return f.movies.Subscribe(ctx)
}

// Refresh fetches every favorite again and stores the fresh records. It
// returns how many were updated. A movie that fails to fetch keeps its old
// record and contributes to the joined error.
func (f *FavoritesModel) Refresh(ctx context.Context, catalog kinopoisk.Catalog) (int, error) {
	current := f.store.List()
	if len(current) == 0 {
		return 0, nil
	}

	if c, ok := catalog.(cacheForgetter); ok {
		for _, m := range current {
			c.Forget(m.ID)
		}
	}

	fresh := make([]*movie.Movie, len(current))

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(refreshConcurrency)

	for i, m := range current {
		g.Go(func() error {
			updated, err := catalog.MovieByID(ctx, m.ID)
			if err != nil {
				f.logger.Warn().
					Err(err).
					Int("id", m.ID).
					Str("title", m.Title).
					Msg("Failed to refresh favorite")
				mu.Lock()
				errs = append(errs, fmt.Errorf("movie %d: %w", m.ID, err))
				mu.Unlock()
				return nil
			}
			fresh[i] = &updated
			return nil
		})
	}

	_ = g.Wait()

	refreshed := 0
	for _, m := range fresh {
		if m == nil {
			continue
		}
		if err := f.store.Add(*m); err != nil {
			errs = append(errs, fmt.Errorf("movie %d: %w", m.ID, err))
			continue
		}
		refreshed++
	}

	f.logger.Debug().
		Int("favorites", len(current)).
		Int("refreshed", refreshed).
		Int("failed", len(errs)).
		Msg("Refreshed favorites")

	return refreshed, errors.Join(errs...)
}
