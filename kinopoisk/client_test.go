package kinopoisk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/kinoshelf/movie"
)

const fullMovieJSON = `{
	"id": 326,
	"name": "Побег из Шоушенка",
	"alternativeName": "The Shawshank Redemption",
	"year": 1994,
	"rating": {"kp": 9.1, "imdb": 9.3},
	"poster": {"url": "https://image.example/326.jpg", "previewUrl": "https://image.example/326s.jpg"},
	"genres": [{"name": "драма"}],
	"persons": [
		{"id": 1, "name": "Фрэнк Дарабонт", "profession": "режиссеры", "enProfession": "director"},
		{"id": 2, "name": "Тим Роббинс", "profession": "актеры", "enProfession": "actor"}
	],
	"description": "Бухгалтер Энди Дюфрейн обвинён в убийстве",
	"externalId": {"imdb": "tt0111161", "tmdb": 278}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/", "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "https://api.kinopoisk.dev/",
			apiKey:  "test-key",
		},
		{
			name:    "missing URL",
			baseURL: "",
			apiKey:  "test-key",
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "missing API key",
			baseURL: DefaultBaseURL,
			apiKey:  "  ",
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://api.kinopoisk.dev", client.baseURL)
			assert.Equal(t, DefaultPageSize, client.pageSize)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "k", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with page size", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "k", logger, WithPageSize(50))
		require.NoError(t, err)
		assert.Equal(t, 50, client.pageSize)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(DefaultBaseURL, "k", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})
}

func TestClient_Movies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.4/movie", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.NoError(t, err)

		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "драма", q.Get("genres.name"))
		assert.Equal(t, "rating.kp", q.Get("sortField"))
		assert.Equal(t, "-1", q.Get("sortType"))
		assert.False(t, q.Has("year"), "blank year must not be sent")
		assert.False(t, q.Has("rating.kp"), "blank rating must not be sent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs": [` + fullMovieJSON + `], "total": 11, "limit": 10, "page": 2, "pages": 2}`))
	})

	page, err := client.Movies(context.Background(), MoviesQuery{Page: 2, Genre: "драма", Year: " "})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Movies, 1)

	assert.Equal(t, movie.Movie{
		ID:        326,
		Title:     "Побег из Шоушенка",
		Year:      1994,
		Rating:    9.1,
		Genre:     "драма",
		Director:  "Фрэнк Дарабонт",
		Synopsis:  "Бухгалтер Энди Дюфрейн обвинён в убийстве",
		PosterURL: "https://image.example/326.jpg",
		TMDBID:    278,
	}, page.Movies[0])
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.4/movie/search", r.URL.Path)
		assert.Equal(t, "batman", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"docs": [{"id": 1, "name": "Batman"}, {"id": 2, "name": "Batman Returns"}], "total": 2, "limit": 10, "page": 1, "pages": 1}`))
	})

	page, err := client.Search(context.Background(), SearchQuery{Query: "batman"})
	require.NoError(t, err)
	require.Len(t, page.Movies, 2)
	assert.Equal(t, "Batman Returns", page.Movies[1].Title)
}

func TestClient_MovieByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.4/movie/326":
			_, _ = w.Write([]byte(fullMovieJSON))
		case "/v1.4/movie/7":
			_, _ = w.Write([]byte(`{"name": "no id"}`))
		case "/v1.4/movie/8":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"statusCode": 404, "message": "Фильм не найден", "error": "Not Found"}`))
		}
	})
	ctx := context.Background()

	m, err := client.MovieByID(ctx, 326)
	require.NoError(t, err)
	assert.Equal(t, "Побег из Шоушенка", m.Title)

	_, err = client.MovieByID(ctx, 999)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Фильм не найден", apiErr.Message)

	_, err = client.MovieByID(ctx, 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.MovieByID(ctx, 8)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.MovieByID(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		unauthorized bool
		serverError  bool
		message      string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message": "В запросе не указан токен!"}`, unauthorized: true, message: "В запросе не указан токен!"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message": ["limit exceeded", "try tomorrow"]}`, unauthorized: true, message: "limit exceeded; try tomorrow"},
		{name: "server error", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, serverError: true, message: "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Movies(context.Background(), MoviesQuery{Page: 1})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.unauthorized, apiErr.IsUnauthorized())
			assert.Equal(t, tt.serverError, apiErr.IsServerError())
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.body, apiErr.Body)
		})
	}
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"docs": [], "total": 0, "limit": 1, "page": 1, "pages": 0}`))
	})
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Movies(ctx, MoviesQuery{Page: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMapper_Fallbacks(t *testing.T) {
	alt := "Alternative"
	emptyName := ""
	director := "director"
	nobody := "actor"
	name := "Someone"

	tests := []struct {
		name string
		dto  movieDTO
		want movie.Movie
	}{
		{
			name: "everything missing",
			dto:  movieDTO{ID: 1},
			want: movie.Movie{
				ID:       1,
				Title:    movie.UnknownTitle,
				Genre:    movie.UnknownGenre,
				Director: movie.UnknownDirector,
				Synopsis: movie.NoDescription,
			},
		},
		{
			name: "alternative name and nil rating value",
			dto: movieDTO{
				ID:              2,
				AlternativeName: &alt,
				Rating:          &ratingDTO{},
				Genres:          []namedDTO{{Name: nil}, {Name: &alt}},
				Persons:         []personDTO{{Name: &name, EnProfession: &nobody}, {Name: nil, EnProfession: &director}},
			},
			want: movie.Movie{
				ID:       2,
				Title:    "Alternative",
				Genre:    ", Alternative",
				Director: movie.UnknownDirector,
				Synopsis: movie.NoDescription,
			},
		},
		{
			name: "empty name wins over alternative",
			dto:  movieDTO{ID: 3, Name: &emptyName, AlternativeName: &alt, Genres: []namedDTO{}},
			want: movie.Movie{
				ID:       3,
				Title:    "",
				Genre:    "",
				Director: movie.UnknownDirector,
				Synopsis: movie.NoDescription,
			},
		},
		{
			name: "blank director name",
			dto:  movieDTO{ID: 4, Persons: []personDTO{{Name: &emptyName, EnProfession: &director}}},
			want: movie.Movie{
				ID:       4,
				Title:    movie.UnknownTitle,
				Genre:    movie.UnknownGenre,
				Director: movie.UnknownDirector,
				Synopsis: movie.NoDescription,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dto.toMovie())
		})
	}
}

type countingCatalog struct {
	calls atomic.Int32
	err   error
}

func (c *countingCatalog) Movies(context.Context, MoviesQuery) (*MoviePage, error) {
	c.calls.Add(1)
	return &MoviePage{}, nil
}

func (c *countingCatalog) Search(context.Context, SearchQuery) (*MoviePage, error) {
	c.calls.Add(1)
	return &MoviePage{}, nil
}

func (c *countingCatalog) MovieByID(_ context.Context, id int) (movie.Movie, error) {
	c.calls.Add(1)
	if c.err != nil {
		return movie.Movie{}, c.err
	}
	return movie.Movie{ID: id, Title: "cached"}, nil
}

func TestCachedClient(t *testing.T) {
	ctx := context.Background()

	t.Run("caches details", func(t *testing.T) {
		next := &countingCatalog{}
		c := NewCachedClient(next, 8, time.Minute, zerolog.Nop())

		for range 3 {
			m, err := c.MovieByID(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, 5, m.ID)
		}
		assert.Equal(t, int32(1), next.calls.Load())

		c.Forget(5)
		_, err := c.MovieByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		next := &countingCatalog{err: &APIError{StatusCode: 404}}
		c := NewCachedClient(next, 8, 0, zerolog.Nop())

		_, err := c.MovieByID(ctx, 5)
		require.Error(t, err)
		_, err = c.MovieByID(ctx, 5)
		require.Error(t, err)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("passes listing through", func(t *testing.T) {
		next := &countingCatalog{}
		c := NewCachedClient(next, 8, 0, zerolog.Nop())

		_, err := c.Movies(ctx, MoviesQuery{Page: 1})
		require.NoError(t, err)
		_, err = c.Movies(ctx, MoviesQuery{Page: 1})
		require.NoError(t, err)
		_, err = c.Search(ctx, SearchQuery{Query: "x"})
		require.NoError(t, err)
		assert.Equal(t, int32(3), next.calls.Load())
		assert.NoError(t, c.Ping(ctx))
	})
}
