package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/prefs"
)

var (
	filterGenre     string
	filterMinRating string
	filterYear      string
)

// filtersCmd represents the filters command
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Show or change the saved filter settings",
	Long: `Show or change the filter settings used by browse. Filters are active when
any of genre, minimum rating or year is set. Values are passed to the catalog
as given, e.g. --min-rating 7-10 or --year 2000-2010.`,
	RunE: runFiltersShow,
}

var filtersShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved filter settings",
	RunE:  runFiltersShow,
}

var filtersSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save filter settings; flags that are not given keep their value",
	RunE:  runFiltersSet,
}

var filtersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all filter settings",
	RunE:  runFiltersClear,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
	filtersCmd.AddCommand(filtersShowCmd, filtersSetCmd, filtersClearCmd)

	filtersSetCmd.Flags().StringVarP(&filterGenre, "genre", "g", "", "genre name, e.g. драма")
	filtersSetCmd.Flags().StringVarP(&filterMinRating, "min-rating", "r", "", "minimum Kinopoisk rating or a range")
	filtersSetCmd.Flags().StringVarP(&filterYear, "year", "y", "", "release year or a range")
}

func openFilters() (*prefs.FilterStore, error) {
	store, err := prefs.NewFilterStore(cfg.Storage.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter settings: %w", err)
	}
	return store, nil
}

func runFiltersShow(cmd *cobra.Command, args []string) error {
	store, err := openFilters()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFilters(store.Current()))
	return nil
}

func runFiltersSet(cmd *cobra.Command, args []string) error {
	store, err := openFilters()
	if err != nil {
		return err
	}

	current := store.Current()
	genre, rating, year := current.Genre, current.MinRating, current.Year
	if cmd.Flags().Changed("genre") {
		genre = filterGenre
	}
	if cmd.Flags().Changed("min-rating") {
		rating = filterMinRating
	}
	if cmd.Flags().Changed("year") {
		year = filterYear
	}

	if err := store.Save(genre, rating, year); err != nil {
		return fmt.Errorf("failed to save filter settings: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFilters(store.Current()))
	return nil
}

func runFiltersClear(cmd *cobra.Command, args []string) error {
	store, err := openFilters()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear filter settings: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Filters cleared")
	return nil
}
