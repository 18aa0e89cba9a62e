package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/cinescope/catalog"
)

// EnvPrefix prefixes every environment override, e.g. CINESCOPE_CATALOG_API_KEY
const EnvPrefix = "CINESCOPE"

// Load loads the configuration from file, .env and environment.
// A missing config file is fine as long as the result validates.
func Load(configPath string) (*Config, error) {
	// A .env file is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The conventional TMDB variable works without the prefix
	if err := v.BindEnv("catalog.api_key", EnvPrefix+"_CATALOG_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cinescope"))
		}

		v.AddConfigPath("/etc/cinescope/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultCachePath returns the cache database location under the user cache dir
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cinescope", "cache.db")
}

// setDefaults sets default configuration values. Every key gets a default so
// that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", catalog.DefaultBaseURL)
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.bearer_token", "")
	v.SetDefault("catalog.language", "en-US")
	v.SetDefault("catalog.image_base_url", catalog.DefaultImageBaseURL)
	v.SetDefault("catalog.timeout", 15*time.Second)
	v.SetDefault("catalog.max_pages", catalog.DefaultMaxPages)

	v.SetDefault("ui.default_category", string(catalog.NowPlaying))
	v.SetDefault("ui.slideshow_size", 4)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", DefaultCachePath())
	v.SetDefault("cache.ttl", 30*time.Minute)

	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}

	if cfg.Catalog.APIKey == "" && cfg.Catalog.BearerToken == "" {
		return fmt.Errorf("catalog.api_key or catalog.bearer_token must be set")
	}
	if cfg.Catalog.APIKey == "your-api-key-here" {
		return fmt.Errorf("catalog.api_key must be set to a valid API key")
	}

	if cfg.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}

	if cfg.Catalog.MaxPages < 1 {
		return fmt.Errorf("catalog.max_pages must be at least 1")
	}

	category, err := catalog.ParseCategory(cfg.UI.DefaultCategory)
	if err != nil {
		return fmt.Errorf("invalid ui.default_category: %w", err)
	}
	cfg.UI.DefaultCategory = category.String()

	if cfg.UI.SlideshowSize < 0 {
		return fmt.Errorf("ui.slideshow_size cannot be negative")
	}

	if cfg.Cache.Enabled && cfg.Cache.Path == "" {
		return fmt.Errorf("cache.path is required when the cache is enabled")
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when radarr is enabled")
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("radarr.api_key must be set to a valid API key")
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
