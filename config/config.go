package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. KINOSHELF_LOGGING_LEVEL
const EnvPrefix = "KINOSHELF"

// TokenEnv is the conventional variable holding the catalog API key
const TokenEnv = "KINOPOISK_TOKEN"

// Load loads the configuration from file and environment. A missing config
// file is fine as long as the environment supplies what's required.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("kinopoisk.api_key", EnvPrefix+"_KINOPOISK_API_KEY", TokenEnv); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".kinoshelf"))
		}

		// Check /etc
		v.AddConfigPath("/etc/kinoshelf/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from path without overriding the environment
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("kinopoisk.url", "https://api.kinopoisk.dev")
	v.SetDefault("kinopoisk.api_key", "")
	v.SetDefault("kinopoisk.page_size", 10)
	v.SetDefault("kinopoisk.timeout", "30s")
	v.SetDefault("kinopoisk.cache_size", 100)
	v.SetDefault("kinopoisk.cache_ttl", "10m")

	// Storage defaults
	v.SetDefault("storage.dir", defaultStorageDir())

	// Radarr defaults
	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.quality_profile_id", 0)
	v.SetDefault("radarr.root_folder", "")
	v.SetDefault("radarr.search_on_add", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func defaultStorageDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".kinoshelf", "data")
	}
	return filepath.Join(".kinoshelf", "data")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

var validate = newValidator()

// newValidator reports fields by their config keys, e.g. kinopoisk.api_key
func newValidator() func(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}

		errs := make([]error, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			errs = append(errs, errors.New(describe(fe)))
		}
		return errors.Join(errs...)
	}
}

func describe(fe validator.FieldError) string {
	// Drop the root struct name from the namespace
	_, key, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		field, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", key, sibling(key, strings.ToLower(field)), value)
	case "oneof":
		return fmt.Sprintf("invalid %s: %v (must be one of: %s)", key, fe.Value(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL: %v", key, fe.Value())
	case "min", "max", "gt":
		return fmt.Sprintf("%s must be %s %s (got %v)", key, bound(fe.Tag()), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}

// sibling returns the key of name next to key, e.g. radarr.api_key -> radarr.enabled
func sibling(key, name string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[:i+1] + name
	}
	return name
}

func bound(tag string) string {
	switch tag {
	case "min":
		return "at least"
	case "max":
		return "at most"
	default:
		return "greater than"
	}
}
