package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/browser"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Long:  `Search the catalog by title. A blank query lists movies sorted by rating instead.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addListFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	list := browser.NewListModel(catalog, cfg.Kinopoisk.PageSize, logger)
	if err := list.Search(ctx, query); err != nil {
		logger.Debug().Err(err).Str("query", query).Msg("Search failed")
	}

	return renderList(ctx, cmd.OutOrStdout(), list)
}
