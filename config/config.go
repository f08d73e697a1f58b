// Package config loads moodmap settings. Values are layered: built-in
// defaults, then an optional YAML file, then environment variables (a .env
// file in the working directory is read first if present).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{"moodmap.yaml", "moodmap.yml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Geoapify GeoapifyConfig `koanf:"geoapify"`
	Weather  WeatherConfig  `koanf:"weather"`
	Search   SearchConfig   `koanf:"search"`
	Storage  StorageConfig  `koanf:"storage"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Address string `koanf:"address" validate:"required"`
	Env     string `koanf:"env" validate:"oneof=dev prod"`
}

type GeoapifyConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

type WeatherConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Units   string `koanf:"units" validate:"oneof=metric imperial standard"`
}

// SearchConfig holds the values a new session starts with.
type SearchConfig struct {
	DefaultLat    float64 `koanf:"default_lat" validate:"gte=-90,lte=90"`
	DefaultLon    float64 `koanf:"default_lon" validate:"gte=-180,lte=180"`
	DefaultMood   string  `koanf:"default_mood" validate:"required"`
	DefaultRadius int     `koanf:"default_radius" validate:"gte=100,lte=50000"`
}

type StorageConfig struct {
	Backend string `koanf:"backend" validate:"oneof=sqlite badger"`
	Dir     string `koanf:"dir" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
			Env:     "dev",
		},
		Geoapify: GeoapifyConfig{
			BaseURL: "https://api.geoapify.com",
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org",
			Units:   "metric",
		},
		Search: SearchConfig{
			DefaultLat:    17.3850,
			DefaultLon:    78.4867,
			DefaultMood:   "catering.cafe",
			DefaultRadius: 5000,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Dir:     "$HOME/.moodmap",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// envMappings maps environment variables to config keys. Anything not listed
// is ignored.
var envMappings = map[string]string{
	"moodmap_address":        "server.address",
	"moodmap_env":            "server.env",
	"geoapify_api_key":       "geoapify.api_key",
	"geoapify_base_url":      "geoapify.base_url",
	"openweather_api_key":    "weather.api_key",
	"openweather_base_url":   "weather.base_url",
	"openweather_units":      "weather.units",
	"moodmap_default_lat":    "search.default_lat",
	"moodmap_default_lon":    "search.default_lon",
	"moodmap_default_mood":   "search.default_mood",
	"moodmap_default_radius": "search.default_radius",
	"moodmap_storage":        "storage.backend",
	"moodmap_data_dir":       "storage.dir",
	"log_level":              "log.level",
	"log_format":             "log.format",
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return load(findFile())
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Missing lists the provider keys that are not set.
func (c *Config) Missing() []string {
	var out []string
	if c.Geoapify.APIKey == "" {
		out = append(out, "GEOAPIFY_API_KEY")
	}
	if c.Weather.APIKey == "" {
		out = append(out, "OPENWEATHER_API_KEY")
	}
	return out
}
