// Package kinopoisk provides a client for the kinopoisk.dev movie catalog API.
//
// The client covers the three catalog calls the browser needs: a paged list of
// movies sorted by rating, a paged full-text search and a single movie by id.
// Responses are mapped into movie.Movie values with placeholders for the
// fields the catalog leaves out.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := kinopoisk.NewClient(
//		kinopoisk.DefaultBaseURL,
//		"your-api-key",
//		logger,
//		kinopoisk.WithTimeout(30*time.Second),
//		kinopoisk.WithPageSize(10),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.Movies(ctx, kinopoisk.MoviesQuery{Page: 1, Genre: "драма"})
//
// # Caching
//
// NewCachedClient wraps a Catalog and keeps recently fetched movie details in
// an LRU cache. Listing and search calls are passed through.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError:
//
//	var apiErr *kinopoisk.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle missing movie
//	}
//
// Responses that cannot be decoded, or that carry no movie id, wrap
// ErrInvalidResponse.
package kinopoisk
