package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repository = "s0up4200/kinoshelf"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build information shown by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: initializeLogger,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kinoshelf %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update kinoshelf to the latest release",
	PersistentPreRunE: initializeLogger,
	RunE:              runUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd, updateCmd)
}

// currentVersion parses the build version; development builds have none
func currentVersion() (semver.Version, error) {
	return semver.Parse(strings.TrimPrefix(version, "v"))
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := currentVersion()
	if err != nil {
		return fmt.Errorf("cannot update a development build (%s): %w", version, err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "kinoshelf %s is up to date\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	logger.Info().
		Str("current", current.String()).
		Str("latest", latest.Version()).
		Msg("Updating")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Fprintf(out, "Updated to %s\n", latest.Version())
	return nil
}
