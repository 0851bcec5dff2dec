package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/radarr"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the catalog and Radarr",
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to the catalog at %s...\n", cfg.Kinopoisk.URL)

	if pinger, ok := catalog.(kinopoisk.Pinger); ok {
		if err := pinger.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("catalog connection failed: %w", err)
		}
	}
	fmt.Fprintln(out, "✓ Connection successful!")

	fmt.Fprintf(out, "\nStorage: %s\n", cfg.Storage.Dir)

	if !cfg.Radarr.Enabled {
		fmt.Fprintln(out, "\nRadarr export: Disabled")
		return nil
	}

	fmt.Fprintf(out, "\nTesting connection to Radarr at %s...\n", cfg.Radarr.URL)
	// NewClient pings Radarr
	if _, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, radarr.Options{
		QualityProfileID: cfg.Radarr.QualityProfileID,
		RootFolder:       cfg.Radarr.RootFolder,
	}, logger); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Radarr connection successful!")
	return nil
}
