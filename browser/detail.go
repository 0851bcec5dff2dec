package browser

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/live"
	"github.com/s0up4200/kinoshelf/movie"
)

// FavoriteMarker is the part of the favorites store the detail view needs
type FavoriteMarker interface {
	Add(m movie.Movie) error
	Remove(id int) error
	IsFavorite(id int) (bool, error)
}

// DetailModel shows a single movie and its favorite flag
type DetailModel struct {
	catalog   kinopoisk.Catalog
	favorites FavoriteMarker
	rawID     string
	logger    zerolog.Logger

	state    *live.Value[DetailState]
	favorite *live.Value[bool]

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewDetailModel creates a detail model for the movie id given as text, as it
// arrives from a route or a command line argument
func NewDetailModel(catalog kinopoisk.Catalog, favorites FavoriteMarker, rawID string, logger zerolog.Logger) *DetailModel {
	return &DetailModel{
		catalog:   catalog,
		favorites: favorites,
		rawID:     rawID,
		logger:    logger,
		state:     live.NewValue[DetailState](DetailLoading{}),
		favorite:  live.NewValue(false),
	}
}

// MovieID parses the id the model was created with
func (d *DetailModel) MovieID() (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(d.rawID))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// State returns the current detail state
func (d *DetailModel) State() DetailState {
	return d.state.Get()
}

// Watch streams the detail state until ctx is done
func (d *DetailModel) Watch(ctx context.Context) <-chan DetailState {
	return d.state.Subscribe(ctx)
}

// IsFavorite returns the local favorite flag
func (d *DetailModel) IsFavorite() bool {
	return d.favorite.Get()
}

// Load fetches the movie and its favorite status
func (d *DetailModel) Load(ctx context.Context) error {
	id, ok := d.MovieID()
	if !ok {
		d.mu.Lock()
		d.supersedeLocked()
		d.mu.Unlock()
		d.state.Set(DetailError{Message: MsgMissingID})
		return ErrMissingID
	}

	d.mu.Lock()
	d.supersedeLocked()
	reqCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	gen := d.gen
	d.state.Set(DetailLoading{})
	d.mu.Unlock()
	defer cancel()

	m, err := d.catalog.MovieByID(reqCtx, id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return ErrSuperseded
	}
	d.cancel = nil

	// Read under the lock so a concurrent toggle is never overwritten
	fav, favErr := d.favorites.IsFavorite(id)
	if favErr != nil {
		d.logger.Warn().Err(favErr).Int("id", id).Msg("Failed to read favorite status")
	} else {
		d.favorite.Set(fav)
	}

	if err != nil {
		d.logger.Error().Err(err).Int("id", id).Msg("Failed to load movie")
		d.state.Set(DetailError{Message: DetailErrorMessage(err)})
		return err
	}

	d.state.Set(DetailSuccess{Movie: m})
	return nil
}

// Retry runs Load again
func (d *DetailModel) Retry(ctx context.Context) error {
	return d.Load(ctx)
}

// ToggleFavorite adds or removes the loaded movie and returns the new flag
func (d *DetailModel) ToggleFavorite(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return d.favorite.Get(), err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	loaded, ok := d.state.Get().(DetailSuccess)
	if !ok {
		return d.favorite.Get(), ErrNotLoaded
	}

	if d.favorite.Get() {
		if err := d.favorites.Remove(loaded.Movie.ID); err != nil {
			return true, err
		}
		d.favorite.Set(false)
		d.logger.Info().Int("id", loaded.Movie.ID).Str("title", loaded.Movie.Title).Msg("Removed from favorites")
		return false, nil
	}

	if err := d.favorites.Add(loaded.Movie); err != nil {
		return false, err
	}
	d.favorite.Set(true)
	d.logger.Info().Int("id", loaded.Movie.ID).Str("title", loaded.Movie.Title).Msg("Added to favorites")
	return true, nil
}

// ShareText formats the loaded movie for sharing
func (d *DetailModel) ShareText() (string, bool) {
	loaded, ok := d.state.Get().(DetailSuccess)
	if !ok {
		return "", false
	}
	return loaded.Movie.ShareText(), true
}

// Share hands the loaded movie's summary to sharer
func (d *DetailModel) Share(ctx context.Context, sharer Sharer) error {
	text, ok := d.ShareText()
	if !ok {
		return ErrNotLoaded
	}
	return sharer.Share(ctx, movie.ShareSubject, text)
}

func (d *DetailModel) supersedeLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
}
