package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/browser"
	"github.com/s0up4200/kinoshelf/movie"
	"github.com/s0up4200/kinoshelf/prefs"
)

var (
	toggleFavorite bool
	shareMovie     bool
)

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show a movie's details",
	Long:  `Show the details of a single movie. --favorite toggles it in the favorites list and --share prints a shareable summary.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMovie,
}

func init() {
	rootCmd.AddCommand(movieCmd)

	movieCmd.Flags().BoolVarP(&toggleFavorite, "favorite", "f", false, "add the movie to favorites, or remove it")
	movieCmd.Flags().BoolVarP(&shareMovie, "share", "s", false, "print a shareable summary")
}

func runMovie(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	favorites, err := prefs.NewFavoritesStore(cfg.Storage.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open favorites: %w", err)
	}

	detail, m, err := openMovie(ctx, favorites, args[0])
	if err != nil {
		return err
	}

	if toggleFavorite {
		added, err := detail.ToggleFavorite(ctx)
		if err != nil {
			return fmt.Errorf("failed to update favorites: %w", err)
		}
		if added {
			fmt.Fprintf(out, "Added %s to favorites\n\n", m.Title)
		} else {
			fmt.Fprintf(out, "Removed %s from favorites\n\n", m.Title)
		}
	}

	if shareMovie {
		return detail.Share(ctx, browser.WriterSharer{W: out})
	}

	fmt.Fprint(out, formatter.FormatMovieDetail(m, detail.IsFavorite()))
	return nil
}

// openMovie loads the movie with the given id. A failed load is reported
// with its user-facing message.
func openMovie(ctx context.Context, favorites *prefs.FavoritesStore, rawID string) (*browser.DetailModel, movie.Movie, error) {
	detail := browser.NewDetailModel(catalog, favorites, rawID, logger)
	if err := detail.Load(ctx); err != nil {
		logger.Debug().Err(err).Str("id", rawID).Msg("Load failed")
	}

	switch s := detail.State().(type) {
	case browser.DetailSuccess:
		return detail, s.Movie, nil
	case browser.DetailError:
		return detail, movie.Movie{}, errors.New(s.Message)
	default:
		return detail, movie.Movie{}, errors.New(browser.MsgUnknown)
	}
}
