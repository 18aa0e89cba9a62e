package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cinescope/cache"
	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/config"
	"github.com/s0up4200/cinescope/library"
)

var (
	cfgFile       string
	noCache       bool
	cfg           *config.Config
	logger        zerolog.Logger
	catalogClient *catalog.Client
	fetcher       catalog.Fetcher
	cacheStore    *cache.Store
	libraryClient *library.Client
	formatter     = NewConsoleFormatter()

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cinescope",
	Short: "Browse movie lists from a TMDB-style catalog",
	Long: `cinescope browses now playing, popular, top rated and upcoming movies,
searches the catalog and pages through the results. Movies already in your
Radarr library can be marked as owned.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// SetVersion records build information shown by --version
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the on-disk response cache")

	rootCmd.AddCommand(pingCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	opts := []catalog.Option{
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithLanguage(cfg.Catalog.Language),
		catalog.WithMaxPages(cfg.Catalog.MaxPages),
	}
	if cfg.Catalog.BearerToken != "" {
		opts = append(opts, catalog.WithBearerToken(cfg.Catalog.BearerToken))
	}

	catalogClient, err = catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}
	fetcher = catalogClient

	if cfg.Cache.Enabled {
		cacheStore, err = cache.Open(cfg.Cache.Path, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open response cache, continuing without it")
		} else if !noCache {
			namespace := cache.Namespace(cfg.Catalog.BaseURL, cfg.Catalog.Language)
			fetcher = cache.NewFetcher(cacheStore, catalogClient, namespace, logger)
		}
	}

	// Create Radarr client if enabled
	if cfg.Radarr.Enabled {
		libraryClient, err = library.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Radarr client, continuing without library marks")
			libraryClient = nil
		} else {
			logger.Debug().Msg("Radarr integration enabled")
		}
	}

	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if cacheStore != nil {
		if err := cacheStore.Close(); err != nil {
			return fmt.Errorf("failed to close cache: %w", err)
		}
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
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

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// pingCmd tests connectivity
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test connection to the movie catalog",
	Long:  `Test the connection to the movie catalog and, when enabled, to Radarr.`,
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", cfg.Catalog.BaseURL)

	if err := catalogClient.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("catalog connection failed: %w", err)
	}
	fmt.Println("✓ Catalog connection successful!")

	if libraryClient != nil {
		owned, err := libraryClient.OwnedIDs(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("✓ Radarr connection successful! (%d movies in library)\n", len(owned))
	} else {
		fmt.Println("Radarr integration: Disabled")
	}

	if cacheStore != nil {
		n, err := cacheStore.Len()
		if err == nil {
			fmt.Printf("Response cache: %d pages at %s\n", n, cfg.Cache.Path)
		}
	}

	return nil
}
