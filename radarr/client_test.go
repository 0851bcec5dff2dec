package radarr

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golift.io/starr/radarr"

	"github.com/s0up4200/kinoshelf/movie"
)

// mockRadarrAPI implements API for testing
type mockRadarrAPI struct {
	mu      sync.Mutex
	movies  []*radarr.Movie
	addErr  map[int64]error
	pingErr error
	nextID  int64

	// Track calls for verification
	added         []*radarr.AddMovieInput
	getMovieCalls int
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getMovieCalls++

	var out []*radarr.Movie
	for _, mv := range m.movies {
		if params.TMDBID == 0 || mv.TmdbID == params.TMDBID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *mockRadarrAPI) AddMovieContext(ctx context.Context, input *radarr.AddMovieInput) (*radarr.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.addErr[input.TmdbID]; err != nil {
		return nil, err
	}
	m.added = append(m.added, input)
	m.nextID++
	mv := &radarr.Movie{ID: m.nextID, TmdbID: input.TmdbID, Title: input.Title}
	m.movies = append(m.movies, mv)
	return mv, nil
}

func (m *mockRadarrAPI) Ping() error {
	return m.pingErr
}

func newTestClient(api API) *Client {
	opts := Options{QualityProfileID: 4, RootFolder: "/movies", SearchOnAdd: true}
	return NewClientWithAPI(api, opts, zerolog.Nop())
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		apiKey string
		opts   Options
	}{
		{name: "missing url", apiKey: "key", opts: Options{QualityProfileID: 1, RootFolder: "/m"}},
		{name: "missing key", url: "http://localhost:7878", opts: Options{QualityProfileID: 1, RootFolder: "/m"}},
		{name: "missing profile", url: "http://localhost:7878", apiKey: "key", opts: Options{RootFolder: "/m"}},
		{name: "missing root folder", url: "http://localhost:7878", apiKey: "key", opts: Options{QualityProfileID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.url, tt.apiKey, tt.opts, zerolog.Nop())
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestAddMovie(t *testing.T) {
	mockAPI := &mockRadarrAPI{nextID: 100}
	client := newTestClient(mockAPI)
	ctx := context.Background()

	m := movie.Movie{ID: 326, Title: "Interstellar", Year: 2014, TMDBID: 157336}
	res, err := client.AddMovie(ctx, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != Added || res.RadarrID != 101 {
		t.Errorf("got status %s id %d, want added 101", res.Status, res.RadarrID)
	}

	if len(mockAPI.added) != 1 {
		t.Fatalf("expected 1 add call, got %d", len(mockAPI.added))
	}
	input := mockAPI.added[0]
	if input.QualityProfileID != 4 || input.RootFolderPath != "/movies" || !input.Monitored {
		t.Errorf("unexpected add input: %+v", input)
	}
	if input.AddOptions == nil || !input.AddOptions.SearchForMovie {
		t.Error("expected search on add")
	}

	// Second export finds the movie already present
	res, err = client.AddMovie(ctx, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != AlreadyExists || res.RadarrID != 101 {
		t.Errorf("got status %s id %d, want already exists 101", res.Status, res.RadarrID)
	}
	if len(mockAPI.added) != 1 {
		t.Errorf("expected no further add calls, got %d", len(mockAPI.added))
	}
}

func TestAddMovieWithoutTMDBID(t *testing.T) {
	mockAPI := &mockRadarrAPI{}
	client := newTestClient(mockAPI)

	res, err := client.AddMovie(context.Background(), movie.Movie{ID: 1, Title: "Брат"})
	if !errors.Is(err, ErrNoTMDBID) {
		t.Fatalf("expected ErrNoTMDBID, got %v", err)
	}
	if res.Status != Failed {
		t.Errorf("expected failed status, got %s", res.Status)
	}
	if mockAPI.getMovieCalls != 0 {
		t.Errorf("expected no lookups, got %d", mockAPI.getMovieCalls)
	}
}

func TestAddMovies(t *testing.T) {
	rejected := errors.New("path not writable")
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{{ID: 7, TmdbID: 20}},
		addErr: map[int64]error{30: rejected},
	}
	client := newTestClient(mockAPI)

	movies := []movie.Movie{
		{ID: 1, Title: "One", TMDBID: 10},
		{ID: 2, Title: "Two", TMDBID: 20},
		{ID: 3, Title: "Three", TMDBID: 30},
		{ID: 4, Title: "Four"},
		{ID: 5, Title: "Five", TMDBID: 50},
	}

	result := client.AddMovies(context.Background(), movies)

	if result.Requested != 5 || len(result.Results) != 5 {
		t.Fatalf("expected 5 results, got %d/%d", result.Requested, len(result.Results))
	}
	wantStatus := []AddStatus{Added, AlreadyExists, Failed, Failed, Added}
	for i, res := range result.Results {
		if res.Movie.ID != movies[i].ID {
			t.Errorf("result %d: movie %d, want %d", i, res.Movie.ID, movies[i].ID)
		}
		if res.Status != wantStatus[i] {
			t.Errorf("result %d: status %s, want %s", i, res.Status, wantStatus[i])
		}
	}

	if result.Count(Added) != 2 || result.Count(AlreadyExists) != 1 || result.Count(Failed) != 2 {
		t.Errorf("unexpected counts: %d/%d/%d",
			result.Count(Added), result.Count(AlreadyExists), result.Count(Failed))
	}

	err := result.Err()
	if !errors.Is(err, rejected) || !errors.Is(err, ErrNoTMDBID) {
		t.Errorf("expected joined errors, got %v", err)
	}

	summary := FormatBatchResult(result)
	if !strings.Contains(summary, "2 added, 1 already present, 2 failed") {
		t.Errorf("unexpected summary: %s", summary)
	}
}

func TestAddMoviesEmpty(t *testing.T) {
	client := newTestClient(&mockRadarrAPI{})
	result := client.AddMovies(context.Background(), nil)
	if result.Requested != 0 || result.Err() != nil {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(&mockRadarrAPI{pingErr: errors.New("connection refused")})
	if err := client.Ping(); err == nil {
		t.Error("expected ping error")
	}
}
