package radarr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golift.io/starr/radarr"

	"github.com/s0up4200/kinoshelf/movie"
)

// ErrNoTMDBID is returned for movies the catalog has no TMDB id for
var ErrNoTMDBID = errors.New("movie has no tmdb id")

// exportConcurrency limits parallel add requests
const exportConcurrency = 5

// AddStatus describes what happened to a single exported movie
type AddStatus int

const (
	Added AddStatus = iota
	AlreadyExists
	Failed
)

func (s AddStatus) String() string {
	switch s {
	case Added:
		return "added"
	case AlreadyExists:
		return "already exists"
	default:
		return "failed"
	}
}

// AddResult is the outcome of exporting one movie
type AddResult struct {
	Movie    movie.Movie
	Status   AddStatus
	RadarrID int64
	Err      error
}

// AddError describes a failed export
type AddError struct {
	MovieID    int
	MovieTitle string
	Err        error
}

func (e AddError) Error() string {
	return fmt.Sprintf("failed to add movie %s (ID: %d): %v", e.MovieTitle, e.MovieID, e.Err)
}

func (e AddError) Unwrap() error {
	return e.Err
}

// BatchAddResult contains the results of a batch export, in input order
type BatchAddResult struct {
	Requested int
	Results   []AddResult
}

// Count returns how many results have the given status
func (r BatchAddResult) Count(status AddStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed exports
func (r BatchAddResult) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status == Failed {
			errs = append(errs, AddError{MovieID: res.Movie.ID, MovieTitle: res.Movie.Title, Err: res.Err})
		}
	}
	return errors.Join(errs...)
}

// AddMovie adds m to the Radarr library unless it is already there
func (c *Client) AddMovie(ctx context.Context, m movie.Movie) (AddResult, error) {
	result := AddResult{Movie: m, Status: Failed}

	if m.TMDBID <= 0 {
		result.Err = ErrNoTMDBID
		return result, AddError{MovieID: m.ID, MovieTitle: m.Title, Err: ErrNoTMDBID}
	}

	existing, err := c.FindByTMDBID(ctx, m.TMDBID)
	if err != nil {
		result.Err = err
		return result, AddError{MovieID: m.ID, MovieTitle: m.Title, Err: err}
	}
	if existing != nil {
		c.logger.Debug().
			Int("movie_id", m.ID).
			Int64("radarr_id", existing.ID).
			Msg("Movie already in Radarr")
		result.Status = AlreadyExists
		result.RadarrID = existing.ID
		return result, nil
	}

	input := &radarr.AddMovieInput{
		Title:            m.Title,
		TmdbID:           m.TMDBID,
		Year:             m.Year,
		QualityProfileID: c.opts.QualityProfileID,
		RootFolderPath:   c.opts.RootFolder,
		Monitored:        true,
		AddOptions: &radarr.AddMovieOptions{
			SearchForMovie: c.opts.SearchOnAdd,
		},
	}

	added, err := c.api.AddMovieContext(ctx, input)
	if err != nil {
		err = fmt.Errorf("radarr rejected movie: %w", err)
		result.Err = err
		return result, AddError{MovieID: m.ID, MovieTitle: m.Title, Err: err}
	}

	result.Status = Added
	if added != nil {
		result.RadarrID = added.ID
	}

	c.logger.Info().
		Int("movie_id", m.ID).
		Int64("tmdb_id", m.TMDBID).
		Str("title", m.Title).
		Bool("search", c.opts.SearchOnAdd).
		Msg("Added movie to Radarr")
	return result, nil
}

// AddMovies exports movies concurrently. Individual failures don't stop the batch.
func (c *Client) AddMovies(ctx context.Context, movies []movie.Movie) BatchAddResult {
	result := BatchAddResult{
		Requested: len(movies),
		Results:   make([]AddResult, len(movies)),
	}

	if len(movies) == 0 {
		return result
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	for i, m := range movies {
		g.Go(func() error {
			res, err := c.AddMovie(ctx, m)
			if err != nil {
				c.logger.Warn().Err(err).Int("movie_id", m.ID).Msg("Export failed")
			}
			result.Results[i] = res
			return nil // Don't stop on individual errors
		})
	}

	g.Wait()
	return result
}

// FormatBatchResult renders a short summary of an export
func FormatBatchResult(r BatchAddResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Exported %d movie", r.Requested)
	if r.Requested != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, ": %d added, %d already present, %d failed\n",
		r.Count(Added), r.Count(AlreadyExists), r.Count(Failed))

	for i, res := range r.Results {
		prefix := "├─"
		if i == len(r.Results)-1 {
			prefix = "└─"
		}
		fmt.Fprintf(&sb, "%s %s (%d): %s", prefix, res.Movie.Title, res.Movie.Year, res.Status)
		if res.Err != nil {
			fmt.Fprintf(&sb, " - %v", res.Err)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
