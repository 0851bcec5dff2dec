package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/browser"
	"github.com/s0up4200/kinoshelf/movie"
	"github.com/s0up4200/kinoshelf/prefs"
)

const replHelp = `Commands:
  next                   load the next page
  search <query>         search by title
  browse                 leave search and list by rating
  filter genre=.. rating=.. year=..
                         save filter settings and reload
  reset                  clear the filter settings
  retry                  repeat the last request after an error
  dismiss                go back to the last list after an error
  open <id>              show a movie
  fav <id>               add or remove a favorite
  share <id>             print a shareable summary
  favs                   list favorites
  quit                   exit`

// session holds what the interactive prompt works on
type session struct {
	out       io.Writer
	list      *browser.ListModel
	filters   *prefs.FilterStore
	favorites *prefs.FavoritesStore
	favModel  *browser.FavoritesModel

	// lastLoad repeats the most recent list request for retry
	lastLoad func(ctx context.Context) error
}

func runInteractive(ctx context.Context, cmd *cobra.Command, list *browser.ListModel, filters *prefs.FilterStore) error {
	favorites, err := prefs.NewFavoritesStore(cfg.Storage.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open favorites: %w", err)
	}

	s := &session{
		out:       cmd.OutOrStdout(),
		list:      list,
		filters:   filters,
		favorites: favorites,
		favModel:  browser.NewFavoritesModel(favorites, logger),
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	// The list reloads on every saved filter change, starting with the current one
	wg.Add(3)
	go func() {
		defer wg.Done()
		_ = list.Run(ctx, filters)
	}()
	go func() {
		defer wg.Done()
		_ = s.favModel.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.printStates(ctx)
	}()

	fmt.Fprintln(s.out, "Type help for commands.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		name, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, name, strings.TrimSpace(rest)); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// printStates renders every settled list state
func (s *session) printStates(ctx context.Context) {
	for state := range s.list.Watch(ctx) {
		switch st := state.(type) {
		case browser.ListSuccess:
			if st.IsLoadingMore {
				continue
			}
			if err := renderList(ctx, s.out, s.list); err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		case browser.ListError:
			fmt.Fprintf(s.out, "error: %s (type retry or dismiss)\n", st.Message)
		}
	}
}

func (s *session) dispatch(ctx context.Context, name, arg string) error {
	switch name {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, replHelp)
	case "next", "n":
		more, err := s.list.LoadNextPage(ctx)
		if !more {
			fmt.Fprintln(s.out, "No more pages")
			return nil
		}
		s.lastLoad = func(ctx context.Context) error {
			_, err := s.list.LoadNextPage(ctx)
			return err
		}
		return quiet(err)
	case "search", "s":
		s.lastLoad = func(ctx context.Context) error { return s.list.Search(ctx, arg) }
		return quiet(s.lastLoad(ctx))
	case "browse":
		s.lastLoad = func(ctx context.Context) error { return s.list.SetSearchState(ctx, false, "") }
		return quiet(s.lastLoad(ctx))
	case "filter":
		genre, rating, year, err := parseFilterArgs(arg, s.filters.Current())
		if err != nil {
			return err
		}
		s.lastLoad = nil
		return s.filters.Save(genre, rating, year)
	case "reset":
		s.lastLoad = nil
		return s.filters.Clear()
	case "retry":
		s.list.ClearError()
		retry := s.lastLoad
		if retry == nil {
			// Filter reloads run from the saved settings the list already holds
			retry = func(ctx context.Context) error { return s.list.LoadPopular(ctx, 1, true) }
		}
		return quiet(retry(ctx))
	case "dismiss":
		s.list.ClearError()
	case "open", "fav", "share":
		return s.movieAction(ctx, name, arg)
	case "favs":
		fmt.Fprint(s.out, formatter.FormatMovieList(s.favModel.Movies(), movie.FormatOptions{ShowDetails: true}))
		fmt.Fprintln(s.out)
	default:
		return fmt.Errorf("unknown command %q, type help", name)
	}
	return nil
}

func (s *session) movieAction(ctx context.Context, name, rawID string) error {
	detail, m, err := openMovie(ctx, s.favorites, rawID)
	if err != nil {
		return err
	}

	switch name {
	case "fav":
		added, err := detail.ToggleFavorite(ctx)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(s.out, "Added %s to favorites\n", m.Title)
		} else {
			fmt.Fprintf(s.out, "Removed %s from favorites\n", m.Title)
		}
	case "share":
		return detail.Share(ctx, browser.WriterSharer{W: s.out})
	default:
		fmt.Fprint(s.out, formatter.FormatMovieDetail(m, detail.IsFavorite()))
	}
	return nil
}

// quiet drops errors the list state already shows
func quiet(err error) error {
	if err == nil || browser.IsSuperseded(err) {
		return nil
	}
	logger.Debug().Err(err).Msg("List request failed")
	return nil
}

// parseFilterArgs reads key=value pairs on top of the current settings.
// Values may contain spaces: "genre=научная фантастика year=2020".
func parseFilterArgs(arg string, current movie.FilterSettings) (genre, rating, year string, err error) {
	genre, rating, year = current.Genre, current.MinRating, current.Year

	var key string
	values := map[string]*string{
		"genre":      &genre,
		"rating":     &rating,
		"min_rating": &rating,
		"year":       &year,
	}

	for field := range strings.FieldsSeq(arg) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			if key == "" {
				return "", "", "", fmt.Errorf("expected key=value, got %q", field)
			}
			*values[key] += " " + field
			continue
		}
		if _, known := values[k]; !known {
			return "", "", "", fmt.Errorf("unknown filter %q (use genre, rating or year)", k)
		}
		key = k
		*values[key] = v
	}
	return genre, rating, year, nil
}
