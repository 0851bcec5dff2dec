package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/config"
	"github.com/s0up4200/kinoshelf/filter"
	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/movie"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	catalog   kinopoisk.Catalog
	presets   *filter.Manager
	formatter = movie.NewConsoleFormatter()

	// Shared list flags
	filterExpr  string
	preset      string
	showDetails bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kinoshelf",
	Short: "Browse Kinopoisk movies and keep a list of favorites",
	Long: `kinoshelf is a CLI for the kinopoisk.dev catalog. It lists movies sorted by
rating, searches by title, shows movie details and keeps favorites, filter
settings and a profile in local preference files.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// addListFlags registers the local filter flags shared by list commands
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "where", "w", "", "filter expression applied to the fetched movies")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().BoolVar(&showDetails, "details", false, "show id, genre and director for each movie")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create catalog client
	client, err := kinopoisk.NewClient(cfg.Kinopoisk.URL, cfg.Kinopoisk.APIKey, logger,
		kinopoisk.WithTimeout(cfg.Kinopoisk.Timeout),
		kinopoisk.WithPageSize(cfg.Kinopoisk.PageSize),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	catalog = client
	if cfg.Kinopoisk.CacheSize > 0 {
		catalog = kinopoisk.NewCachedClient(client, cfg.Kinopoisk.CacheSize, cfg.Kinopoisk.CacheTTL, logger)
	}

	presets = filter.NewManager()
	if err := presets.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("catalog", cfg.Kinopoisk.URL).
		Str("storage", cfg.Storage.Dir).
		Int("presets", len(cfg.Filter)).
		Msg("Initialized")

	return nil
}

// initializeLogger is used by commands that work without a config file
func initializeLogger(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// refine applies --preset and --where to movies
func refine(ctx context.Context, movies []movie.Movie) ([]movie.Movie, error) {
	if preset == "" && filterExpr == "" {
		return movies, nil
	}

	refined, err := presets.Refine(ctx, preset, filterExpr, movies)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	logger.Debug().
		Str("preset", preset).
		Str("where", filterExpr).
		Int("before", len(movies)).
		Int("after", len(refined)).
		Msg("Refined movies")
	return refined, nil
}
