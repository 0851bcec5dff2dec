package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/browser"
	"github.com/s0up4200/kinoshelf/movie"
	"github.com/s0up4200/kinoshelf/prefs"
	"github.com/s0up4200/kinoshelf/radarr"
)

// favoritesCmd represents the favorites command
var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite movies",
	RunE:    runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite movies in the order they were added",
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add movies to favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove movies from favorites",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runFavoritesRemove,
}

var favoritesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch every favorite again and update the stored records",
	RunE:  runFavoritesRefresh,
}

var favoritesPushCmd = &cobra.Command{
	Use:   "push-radarr",
	Short: "Add favorites to the Radarr library",
	Long: `Add every favorite that has a TMDB id to Radarr with the configured quality
profile and root folder. Movies already in the library are left alone.`,
	RunE: runFavoritesPush,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesRefreshCmd, favoritesPushCmd)

	addListFlags(favoritesCmd)
	addListFlags(favoritesListCmd)
	favoritesPushCmd.Flags().StringVarP(&filterExpr, "where", "w", "", "only push favorites matching this expression")
	favoritesPushCmd.Flags().StringVarP(&preset, "preset", "p", "", "only push favorites matching a preset from config")
}

func openFavorites() (*prefs.FavoritesStore, error) {
	store, err := prefs.NewFavoritesStore(cfg.Storage.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites: %w", err)
	}
	return store, nil
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	store, err := openFavorites()
	if err != nil {
		return err
	}

	movies, err := refine(cmd.Context(), store.List())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, formatter.FormatMovieList(movies, movie.FormatOptions{ShowDetails: showDetails}))
	fmt.Fprintln(out)
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	store, err := openFavorites()
	if err != nil {
		return err
	}

	for _, raw := range args {
		detail, m, err := openMovie(cmd.Context(), store, raw)
		if err != nil {
			return fmt.Errorf("movie %s: %w", raw, err)
		}
		if detail.IsFavorite() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already a favorite\n", m.Title)
			continue
		}
		if err := store.Add(m); err != nil {
			return fmt.Errorf("failed to add %s: %w", m.Title, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", m.Title, m.Year)
	}
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	store, err := openFavorites()
	if err != nil {
		return err
	}

	for _, raw := range args {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid movie id: %s", raw)
		}
		if err := store.Remove(id); err != nil {
			return fmt.Errorf("failed to remove %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id)
	}
	return nil
}

func runFavoritesRefresh(cmd *cobra.Command, args []string) error {
	store, err := openFavorites()
	if err != nil {
		return err
	}

	model := browser.NewFavoritesModel(store, logger)
	refreshed, err := model.Refresh(cmd.Context(), catalog)
	fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d of %d favorites\n", refreshed, len(store.List()))
	return err
}

func runFavoritesPush(cmd *cobra.Command, args []string) error {
	if !cfg.Radarr.Enabled {
		return fmt.Errorf("radarr export is disabled, set radarr.enabled in config")
	}

	store, err := openFavorites()
	if err != nil {
		return err
	}

	movies, err := refine(cmd.Context(), store.List())
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No favorites to export")
		return nil
	}

	client, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, radarr.Options{
		QualityProfileID: cfg.Radarr.QualityProfileID,
		RootFolder:       cfg.Radarr.RootFolder,
		SearchOnAdd:      cfg.Radarr.SearchOnAdd,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create Radarr client: %w", err)
	}

	result := client.AddMovies(cmd.Context(), movies)
	fmt.Fprint(cmd.OutOrStdout(), radarr.FormatBatchResult(result))
	return result.Err()
}
