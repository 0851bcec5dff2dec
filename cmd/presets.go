package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/filter"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets [expression]",
	Short: "List filter presets from config",
	Long: `List the named filter expressions under "filter" in the config file.
Use them with --preset on browse, search and favorites.

With an expression argument, check that it compiles instead:
  kinoshelf presets 'hasGenre("драма") and Rating >= 8'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		f, err := filter.CompileFilter(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ %s\n", f.Expression())
		return nil
	}

	names := presets.ListFilters()
	if len(names) == 0 {
		fmt.Fprintln(out, "No presets configured")
		return nil
	}

	for _, name := range names {
		f, _ := presets.GetFilter(name)
		fmt.Fprintf(out, "%-16s %s\n", name, f.Expression())
	}
	return nil
}
