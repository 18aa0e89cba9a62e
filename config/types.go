package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Radarr  RadarrConfig  `mapstructure:"radarr"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds movie catalog API connection details
type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	BearerToken  string        `mapstructure:"bearer_token"`
	Language     string        `mapstructure:"language"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxPages     int           `mapstructure:"max_pages"`
}

// UIConfig contains presentation settings
type UIConfig struct {
	DefaultCategory string `mapstructure:"default_category"`
	SlideshowSize   int    `mapstructure:"slideshow_size"`
}

// CacheConfig controls the on-disk response cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RadarrConfig holds Radarr API connection details
type RadarrConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
