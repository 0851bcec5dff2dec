package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Kinopoisk KinopoiskConfig `mapstructure:"kinopoisk"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Radarr    RadarrConfig    `mapstructure:"radarr"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// KinopoiskConfig holds catalog API connection details
type KinopoiskConfig struct {
	URL       string        `mapstructure:"url" validate:"required,url"`
	APIKey    string        `mapstructure:"api_key" validate:"required"`
	PageSize  int           `mapstructure:"page_size" validate:"min=1,max=250"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	CacheSize int           `mapstructure:"cache_size" validate:"min=0"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
}

// StorageConfig says where preference files live
type StorageConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// RadarrConfig holds Radarr connection details for exporting favorites
type RadarrConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url" validate:"omitempty,url"`
	APIKey           string `mapstructure:"api_key" validate:"required_if=Enabled true"`
	QualityProfileID int64  `mapstructure:"quality_profile_id" validate:"required_if=Enabled true"`
	RootFolder       string `mapstructure:"root_folder" validate:"required_if=Enabled true"`
	SearchOnAdd      bool   `mapstructure:"search_on_add"`
}

// FilterConfig contains named filter presets
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
