package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/kinoshelf/live"
	"github.com/s0up4200/kinoshelf/movie"
)

const keyFavoriteMovies = "favorite_movies"

// FavoritesStore persists favorite movies as a set of JSON records keyed by movie ID
type FavoritesStore struct {
	file   *File
	value  *live.Value[[]movie.Movie]
	logger zerolog.Logger
}

// NewFavoritesStore opens the favorites preferences in dir
func NewFavoritesStore(dir string, logger zerolog.Logger) (*FavoritesStore, error) {
	file, err := OpenFile(dir, FavoritesName)
	if err != nil {
		return nil, err
	}

	s := &FavoritesStore{
		file:   file,
		logger: logger,
	}

	values, err := file.Read()
	if err != nil {
		return nil, err
	}
	s.value = live.NewValue(s.decode(values))

	return s, nil
}

// decode parses every stored record, dropping the ones that do not decode
func (s *FavoritesStore) decode(values Values) []movie.Movie {
	records := values.Strings(keyFavoriteMovies)
	movies := make([]movie.Movie, 0, len(records))
	for i, record := range records {
		var m movie.Movie
		if err := json.Unmarshal([]byte(record), &m); err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("Dropping unreadable favorite record")
			continue
		}
		movies = append(movies, m)
	}
	return movies
}

// List returns a snapshot of the favorite movies
func (s *FavoritesStore) List() []movie.Movie {
	return slices.Clone(s.value.Get())
}

// Subscribe streams the favorites list and every later change until ctx is done
func (s *FavoritesStore) Subscribe(ctx context.Context) <-chan []movie.Movie {
	return s.value.Subscribe(ctx)
}

// Add stores m. A favorite with the same ID is replaced in place.
func (s *FavoritesStore) Add(m movie.Movie) error {
	record, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode movie %d: %w", m.ID, err)
	}

	return s.mutate(func(records []string) []string {
		at := slices.IndexFunc(records, func(r string) bool {
			return recordID(r) == m.ID
		})
		if at < 0 {
			return append(records, string(record))
		}
		records = s.without(records, m.ID)
		return slices.Insert(records, min(at, len(records)), string(record))
	})
}

// Remove deletes the favorite with the given ID. Removing an unknown ID is a no-op.
func (s *FavoritesStore) Remove(id int) error {
	return s.mutate(func(records []string) []string {
		return s.without(records, id)
	})
}

// IsFavorite reports whether id is stored as a favorite
func (s *FavoritesStore) IsFavorite(id int) (bool, error) {
	values, err := s.file.Read()
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(s.decode(values), func(m movie.Movie) bool {
		return m.ID == id
	}), nil
}

func (s *FavoritesStore) mutate(fn func([]string) []string) error {
	var updated Values
	err := s.file.Edit(func(values Values) error {
		if err := values.Set(keyFavoriteMovies, fn(values.Strings(keyFavoriteMovies))); err != nil {
			return err
		}
		updated = values
		return nil
	})
	if err != nil {
		return err
	}

	s.value.Set(s.decode(updated))
	return nil
}

// without drops records for id. Unreadable records are kept as they are.
func (*FavoritesStore) without(records []string, id int) []string {
	kept := make([]string, 0, len(records))
	for _, record := range records {
		if recordID(record) == id {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

// recordID returns the movie ID of a stored record, or -1 when it does not decode
func recordID(record string) int {
	var m movie.Movie
	if err := json.Unmarshal([]byte(record), &m); err != nil {
		return -1
	}
	return m.ID
}
