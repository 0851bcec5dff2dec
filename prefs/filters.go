package prefs

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/kinoshelf/live"
	"github.com/s0up4200/kinoshelf/movie"
)

const (
	keyGenre            = "genre"
	keyMinRating        = "min_rating"
	keyYear             = "year"
	keyHasActiveFilters = "has_active_filters"
)

// FilterStore persists the catalog filter settings and streams every change
type FilterStore struct {
	file   *File
	value  *live.Value[movie.FilterSettings]
	logger zerolog.Logger
}

// NewFilterStore opens the filter preferences in dir
func NewFilterStore(dir string, logger zerolog.Logger) (*FilterStore, error) {
	file, err := OpenFile(dir, FiltersName)
	if err != nil {
		return nil, err
	}

	values, err := file.Read()
	if err != nil {
		return nil, err
	}

	return &FilterStore{
		file:   file,
		value:  live.NewValue(decodeFilters(values)),
		logger: logger,
	}, nil
}

func decodeFilters(values Values) movie.FilterSettings {
	return movie.FilterSettings{
		Genre:            values.String(keyGenre),
		MinRating:        values.String(keyMinRating),
		Year:             values.String(keyYear),
		HasActiveFilters: values.Bool(keyHasActiveFilters),
	}
}

// Current returns the current filter settings
func (s *FilterStore) Current() movie.FilterSettings {
	return s.value.Get()
}

// Subscribe streams the current settings and every later change until ctx is done
func (s *FilterStore) Subscribe(ctx context.Context) <-chan movie.FilterSettings {
	return s.value.Subscribe(ctx)
}

// Save persists the three filter fields and derives HasActiveFilters from them
func (s *FilterStore) Save(genre, minRating, year string) error {
	fs := movie.NewFilterSettings(strings.TrimSpace(genre), strings.TrimSpace(minRating), strings.TrimSpace(year))

	err := s.file.Edit(func(values Values) error {
		for key, val := range map[string]any{
			keyGenre:            fs.Genre,
			keyMinRating:        fs.MinRating,
			keyYear:             fs.Year,
			keyHasActiveFilters: fs.HasActiveFilters,
		} {
			if err := values.Set(key, val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("genre", fs.Genre).
		Str("min_rating", fs.MinRating).
		Str("year", fs.Year).
		Bool("active", fs.HasActiveFilters).
		Msg("Saved filter settings")

	s.value.Set(fs)
	return nil
}

// Clear removes all filter fields and marks the filters inactive
func (s *FilterStore) Clear() error {
	err := s.file.Edit(func(values Values) error {
		delete(values, keyGenre)
		delete(values, keyMinRating)
		delete(values, keyYear)
		return values.Set(keyHasActiveFilters, false)
	})
	if err != nil {
		return err
	}

	s.logger.Debug().Msg("Cleared filter settings")
	s.value.Set(movie.FilterSettings{})
	return nil
}
