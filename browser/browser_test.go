package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/live"
	"github.com/s0up4200/kinoshelf/movie"
)

// fakeCatalog records every call and answers through the configured funcs
type fakeCatalog struct {
	mu          sync.Mutex
	moviesCalls []kinopoisk.MoviesQuery
	searchCalls []kinopoisk.SearchQuery
	byIDCalls   []int

	movies func(ctx context.Context, q kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error)
	search func(ctx context.Context, q kinopoisk.SearchQuery) (*kinopoisk.MoviePage, error)
	byID   func(ctx context.Context, id int) (movie.Movie, error)
}

func (f *fakeCatalog) Movies(ctx context.Context, q kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error) {
	f.mu.Lock()
	f.moviesCalls = append(f.moviesCalls, q)
	fn := f.movies
	f.mu.Unlock()
	if fn == nil {
		return pageOf(), nil
	}
	return fn(ctx, q)
}

func (f *fakeCatalog) Search(ctx context.Context, q kinopoisk.SearchQuery) (*kinopoisk.MoviePage, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, q)
	fn := f.search
	f.mu.Unlock()
	if fn == nil {
		return pageOf(), nil
	}
	return fn(ctx, q)
}

func (f *fakeCatalog) MovieByID(ctx context.Context, id int) (movie.Movie, error) {
	f.mu.Lock()
	f.byIDCalls = append(f.byIDCalls, id)
	fn := f.byID
	f.mu.Unlock()
	if fn == nil {
		return movie.Movie{}, errors.New("not configured")
	}
	return fn(ctx, id)
}

func (f *fakeCatalog) movieQueries() []kinopoisk.MoviesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kinopoisk.MoviesQuery(nil), f.moviesCalls...)
}

func (f *fakeCatalog) searchQueries() []kinopoisk.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kinopoisk.SearchQuery(nil), f.searchCalls...)
}

func (f *fakeCatalog) idCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.byIDCalls...)
}

func moviesWithIDs(ids ...int) []movie.Movie {
	movies := make([]movie.Movie, 0, len(ids))
	for _, id := range ids {
		movies = append(movies, movie.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id)})
	}
	return movies
}

func pageOf(ids ...int) *kinopoisk.MoviePage {
	return &kinopoisk.MoviePage{Movies: moviesWithIDs(ids...), Page: 1, Limit: 10}
}

// pagedMovies serves ten ids per page for pages up to last, then empty pages
func pagedMovies(last int) func(context.Context, kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error) {
	return func(_ context.Context, q kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error) {
		if q.Page > last {
			return pageOf(), nil
		}
		ids := make([]int, 0, 10)
		for i := 1; i <= 10; i++ {
			ids = append(ids, (q.Page-1)*10+i)
		}
		return pageOf(ids...), nil
	}
}

// filterFeed is an in-memory FilterSource
type filterFeed struct {
	value *live.Value[movie.FilterSettings]
}

func newFilterFeed(fs movie.FilterSettings) *filterFeed {
	return &filterFeed{value: live.NewValue(fs)}
}

func (f *filterFeed) Subscribe(ctx context.Context) <-chan movie.FilterSettings {
	return f.value.Subscribe(ctx)
}
