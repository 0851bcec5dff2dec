package kinopoisk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/kinoshelf/movie"
)

const (
	// DefaultBaseURL is the public kinopoisk.dev endpoint
	DefaultBaseURL = "https://api.kinopoisk.dev"
	// DefaultPageSize matches the page size the catalog UI uses
	DefaultPageSize = 10

	apiPrefix = "/v1.4"
)

// Client represents a kinopoisk.dev API client
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new kinopoisk client. No request is made until the first call.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: kinopoisk URL is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: kinopoisk API key is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: DefaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an authenticated GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + apiPrefix + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Kinopoisk API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			Body:       string(body),
		}
	}

	return body, nil
}

// errorMessage extracts the "message" field kinopoisk puts in error bodies
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Message) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Message, &msg); err == nil && msg != "" {
			return msg
		}
		var msgs []string
		if err := json.Unmarshal(payload.Message, &msgs); err == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return http.StatusText(status)
}

func (c *Client) paging(page, limit int) url.Values {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = c.pageSize
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, params url.Values) (*MoviePage, error) {
	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var response movieResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return response.toPage(), nil
}

// Movies retrieves a page of movies sorted by kinopoisk rating, best first
func (c *Client) Movies(ctx context.Context, q MoviesQuery) (*MoviePage, error) {
	params := c.paging(q.Page, q.Limit)
	setIfPresent(params, "year", q.Year)
	setIfPresent(params, "rating.kp", q.MinRating)
	setIfPresent(params, "genres.name", q.Genre)
	params.Set("sortField", "rating.kp")
	params.Set("sortType", "-1")

	page, err := c.fetchPage(ctx, "/movie", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	c.logger.Debug().
		Int("page", page.Page).
		Int("count", len(page.Movies)).
		Int("total", page.Total).
		Msg("Retrieved movies from kinopoisk")

	return page, nil
}

// Search retrieves a page of movies matching q.Query
func (c *Client) Search(ctx context.Context, q SearchQuery) (*MoviePage, error) {
	params := c.paging(q.Page, q.Limit)
	params.Set("query", q.Query)

	page, err := c.fetchPage(ctx, "/movie/search", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	c.logger.Debug().
		Str("query", q.Query).
		Int("count", len(page.Movies)).
		Msg("Searched kinopoisk")

	return page, nil
}

// MovieByID retrieves a single movie
func (c *Client) MovieByID(ctx context.Context, id int) (movie.Movie, error) {
	if id <= 0 {
		return movie.Movie{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	body, err := c.doRequest(ctx, "/movie/"+strconv.Itoa(id), nil)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	var dto movieDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return movie.Movie{}, fmt.Errorf("failed to get movie %d: %w: %v", id, ErrInvalidResponse, err)
	}
	if dto.ID == 0 {
		return movie.Movie{}, fmt.Errorf("failed to get movie %d: %w: missing id", id, ErrInvalidResponse)
	}

	return dto.toMovie(), nil
}

// Ping tests the connection and API key with a one-movie listing
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, "/movie", c.paging(1, 1))
	return err
}

func setIfPresent(params url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		params.Set(key, value)
	}
}
