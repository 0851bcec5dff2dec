package cmd

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/kinoshelf/browser"
	"github.com/s0up4200/kinoshelf/config"
	"github.com/s0up4200/kinoshelf/filter"
	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/movie"
)

type stubCatalog struct {
	page *kinopoisk.MoviePage
	err  error
}

func (s stubCatalog) Movies(context.Context, kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error) {
	return s.page, s.err
}

func (s stubCatalog) Search(context.Context, kinopoisk.SearchQuery) (*kinopoisk.MoviePage, error) {
	return s.page, s.err
}

func (s stubCatalog) MovieByID(context.Context, int) (movie.Movie, error) {
	return movie.Movie{}, s.err
}

// funcCatalog answers with per-call functions and records the requests
type funcCatalog struct {
	stubCatalog
	mu       sync.Mutex
	pages    []int
	searches []string
	movies   func(q kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error)
	search   func(q kinopoisk.SearchQuery) (*kinopoisk.MoviePage, error)
}

func (f *funcCatalog) Movies(_ context.Context, q kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error) {
	f.mu.Lock()
	f.pages = append(f.pages, q.Page)
	f.mu.Unlock()
	return f.movies(q)
}

func (f *funcCatalog) Search(_ context.Context, q kinopoisk.SearchQuery) (*kinopoisk.MoviePage, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q.Query)
	f.mu.Unlock()
	return f.search(q)
}

func TestParseFilterArgs(t *testing.T) {
	current := movie.NewFilterSettings("драма", "7", "")

	tests := []struct {
		name                string
		arg                 string
		genre, rating, year string
		wantErr             bool
	}{
		{name: "keeps current", arg: "", genre: "драма", rating: "7"},
		{name: "overrides year", arg: "year=2020", genre: "драма", rating: "7", year: "2020"},
		{name: "clears genre", arg: "genre=", rating: "7"},
		{name: "multi word genre", arg: "genre=научная фантастика rating=8-10", genre: "научная фантастика", rating: "8-10"},
		{name: "min_rating alias", arg: "min_rating=6", genre: "драма", rating: "6"},
		{name: "unknown key", arg: "director=Nolan", wantErr: true},
		{name: "bare word", arg: "comedy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genre, rating, year, err := parseFilterArgs(tt.arg, current)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.genre, genre)
			assert.Equal(t, tt.rating, rating)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestRenderList(t *testing.T) {
	logger = zerolog.Nop()
	presets = filter.NewManager()
	require.NoError(t, presets.RegisterFilter("top", `Rating >= 8`))
	t.Cleanup(func() { preset, filterExpr = "", "" })

	page := &kinopoisk.MoviePage{
		Movies: []movie.Movie{
			{ID: 1, Title: "Брат", Year: 1997, Rating: 8.3},
			{ID: 2, Title: "Брат 2", Year: 2000, Rating: 7.9},
		},
		Page: 1, Pages: 3,
	}

	list := browser.NewListModel(stubCatalog{page: page}, 10, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, list.LoadPopular(ctx, 1, false))

	var buf bytes.Buffer
	require.NoError(t, renderList(ctx, &buf, list))
	assert.Contains(t, buf.String(), "Брат (1997)")
	assert.Contains(t, buf.String(), "Брат 2 (2000)")
	assert.Contains(t, buf.String(), "Page 1, more available")

	preset = "top"
	buf.Reset()
	require.NoError(t, renderList(ctx, &buf, list))
	assert.Contains(t, buf.String(), "Брат (1997)")
	assert.NotContains(t, buf.String(), "Брат 2")
}

func TestRenderListError(t *testing.T) {
	logger = zerolog.Nop()

	list := browser.NewListModel(stubCatalog{err: &kinopoisk.APIError{StatusCode: 401}}, 10, zerolog.Nop())
	ctx := context.Background()
	require.Error(t, list.LoadPopular(ctx, 1, false))

	err := renderList(ctx, &bytes.Buffer{}, list)
	require.Error(t, err)
	assert.Equal(t, browser.MsgUnauthorized, err.Error())
}

func TestQuiet(t *testing.T) {
	logger = zerolog.Nop()
	assert.NoError(t, quiet(nil))
	assert.NoError(t, quiet(browser.ErrSuperseded))
	assert.NoError(t, quiet(errors.New("boom")))
}

func TestRetryRepeatsSearch(t *testing.T) {
	logger = zerolog.Nop()

	calls := 0
	catalog := &funcCatalog{
		search: func(q kinopoisk.SearchQuery) (*kinopoisk.MoviePage, error) {
			calls++
			if calls == 1 {
				return nil, &kinopoisk.APIError{StatusCode: 503}
			}
			return &kinopoisk.MoviePage{Movies: []movie.Movie{{ID: 1, Title: "Бэтмен"}}, Page: 1, Pages: 1}, nil
		},
	}
	s := &session{out: &bytes.Buffer{}, list: browser.NewListModel(catalog, 10, zerolog.Nop())}
	ctx := context.Background()

	require.NoError(t, s.dispatch(ctx, "search", "бэтмен"))
	assert.Equal(t, browser.ListError{Message: browser.MsgServerError}, s.list.State())

	require.NoError(t, s.dispatch(ctx, "retry", ""))
	state, ok := s.list.State().(browser.ListSuccess)
	require.True(t, ok)
	assert.True(t, state.IsSearching)
	assert.Equal(t, "бэтмен", state.SearchQuery)
	assert.Len(t, state.Movies, 1)
	assert.Equal(t, []string{"бэтмен", "бэтмен"}, catalog.searches)
	assert.Empty(t, catalog.pages)
}

func TestRetryRepeatsNextPage(t *testing.T) {
	logger = zerolog.Nop()

	failed := false
	catalog := &funcCatalog{
		movies: func(q kinopoisk.MoviesQuery) (*kinopoisk.MoviePage, error) {
			if q.Page == 2 && !failed {
				failed = true
				return nil, &kinopoisk.APIError{StatusCode: 500}
			}
			return &kinopoisk.MoviePage{Movies: []movie.Movie{{ID: q.Page, Title: "Фильм"}}, Page: q.Page, Pages: 3}, nil
		},
	}
	s := &session{out: &bytes.Buffer{}, list: browser.NewListModel(catalog, 10, zerolog.Nop())}
	ctx := context.Background()

	require.NoError(t, s.list.LoadPopular(ctx, 1, true))
	require.NoError(t, s.dispatch(ctx, "next", ""))
	state, ok := s.list.State().(browser.ListSuccess)
	require.True(t, ok)
	assert.Equal(t, browser.MsgServerError, state.Notice)

	require.NoError(t, s.dispatch(ctx, "retry", ""))
	state, ok = s.list.State().(browser.ListSuccess)
	require.True(t, ok)
	assert.Empty(t, state.Notice)
	assert.Len(t, state.Movies, 2)
	assert.Equal(t, []int{1, 2, 2}, catalog.pages)
}

func TestRunPresetsCheck(t *testing.T) {
	presets = filter.NewManager()
	require.NoError(t, presets.RegisterFilter("top", `Rating >= 8`))

	var buf bytes.Buffer
	presetsCmd.SetOut(&buf)
	t.Cleanup(func() { presetsCmd.SetOut(nil) })

	require.NoError(t, runPresets(presetsCmd, nil))
	assert.Contains(t, buf.String(), "top")
	assert.Contains(t, buf.String(), "Rating >= 8")

	buf.Reset()
	require.NoError(t, runPresets(presetsCmd, []string{` hasText(Title, "брат") `}))
	assert.Equal(t, "✓ hasText(Title, \"брат\")\n", buf.String())

	assert.Error(t, runPresets(presetsCmd, []string{`Rating >=`}))
	assert.Error(t, runPresets(presetsCmd, []string{`Title`}))
}
