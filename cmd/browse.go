package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/browser"
	"github.com/s0up4200/kinoshelf/movie"
	"github.com/s0up4200/kinoshelf/prefs"
)

var (
	browsePages int
	noFilters   bool
	interactive bool
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"list"},
	Short:   "List movies sorted by rating",
	Long: `List movies from the catalog sorted by Kinopoisk rating, narrowed by the
saved filter settings. Use --interactive to page, search and change filters
from a prompt.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().IntVarP(&browsePages, "pages", "n", 1, "number of pages to load")
	browseCmd.Flags().BoolVar(&noFilters, "no-filters", false, "ignore the saved filter settings")
	browseCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive prompt")
	addListFlags(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filters, err := prefs.NewFilterStore(cfg.Storage.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open filter settings: %w", err)
	}

	list := browser.NewListModel(catalog, cfg.Kinopoisk.PageSize, logger)

	if interactive {
		return runInteractive(ctx, cmd, list, filters)
	}

	if noFilters {
		err = list.LoadPopular(ctx, 1, false)
	} else {
		err = list.ApplyFilters(ctx, filters.Current())
	}

	for page := 2; err == nil && page <= browsePages; page++ {
		var more bool
		if more, err = list.LoadNextPage(ctx); !more {
			break
		}
	}
	if err != nil {
		logger.Debug().Err(err).Msg("Load failed")
	}

	return renderList(ctx, cmd.OutOrStdout(), list)
}

// renderList prints the list state. An error state becomes the command error.
func renderList(ctx context.Context, w io.Writer, list *browser.ListModel) error {
	switch s := list.State().(type) {
	case browser.ListSuccess:
		if s.IsLoadingMore {
			return nil
		}
		if list.FiltersActive() {
			fmt.Fprintln(w, formatter.FormatFilters(list.Filters()))
		}
		if s.Notice != "" {
			logger.Warn().Str("reason", s.Notice).Msg("Showing previously loaded movies")
		}
		if s.IsSearching {
			fmt.Fprintf(w, "Results for %q\n", s.SearchQuery)
		}

		movies, err := refine(ctx, s.Movies)
		if err != nil {
			return err
		}
		fmt.Fprint(w, formatter.FormatMovieList(movies, movie.FormatOptions{ShowDetails: showDetails}))
		fmt.Fprintln(w)

		if s.CanLoadMore && !s.IsSearching {
			fmt.Fprintf(w, "Page %d, more available\n", list.CurrentPage())
		}
		return nil
	case browser.ListError:
		return errors.New(s.Message)
	default:
		return nil
	}
}
