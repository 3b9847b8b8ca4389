package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ngmaloney/weather-now/internal/database"
	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/openmeteo"
)

// Config holds all configuration for the application
type Config struct {
	OpenMeteo OpenMeteoConfig `mapstructure:"openmeteo"`
	History   HistoryConfig   `mapstructure:"history"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// OpenMeteoConfig holds the upstream endpoints and request policy
type OpenMeteoConfig struct {
	GeocodingURL      string        `mapstructure:"geocoding_url"`
	ForecastURL       string        `mapstructure:"forecast_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables limiting
	Burst             int           `mapstructure:"burst"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// HistoryConfig controls the recent-search store
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"` // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
	File   string `mapstructure:"file"`   // empty means stderr (discarded by the TUI)
}

// Load reads configuration from an optional file and WEATHER_NOW_* environment
// variables. An explicit configFile must exist; otherwise config.yaml is searched for.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.weather-now")
	}

	// Set defaults
	v.SetDefault("openmeteo.geocoding_url", geocoding.DefaultURL)
	v.SetDefault("openmeteo.forecast_url", openmeteo.DefaultForecastURL)
	v.SetDefault("openmeteo.timeout", 30*time.Second)
	v.SetDefault("openmeteo.requests_per_second", 5.0)
	v.SetDefault("openmeteo.burst", 1)
	v.SetDefault("openmeteo.user_agent", "WeatherNow/1.0")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", database.DefaultPath())
	v.SetDefault("history.limit", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	// Read from environment variables, e.g. WEATHER_NOW_LOG_LEVEL
	v.SetEnvPrefix("WEATHER_NOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if a searched-for config file doesn't exist, we have defaults
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the clients cannot work with
func (c *Config) Validate() error {
	if c.OpenMeteo.GeocodingURL == "" || c.OpenMeteo.ForecastURL == "" {
		return errors.New("openmeteo endpoints must not be empty")
	}
	if c.OpenMeteo.RequestsPerSecond < 0 {
		return fmt.Errorf("openmeteo.requests_per_second must be >= 0, got %v", c.OpenMeteo.RequestsPerSecond)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path must be set when history is enabled")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLimiter returns the shared outbound limiter, or nil when limiting is disabled
func (c *Config) NewLimiter() *rate.Limiter {
	if c.OpenMeteo.RequestsPerSecond <= 0 {
		return nil
	}
	burst := c.OpenMeteo.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.OpenMeteo.RequestsPerSecond), burst)
}

// NewLogger creates a new slog.Logger writing to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// OpenLogFile opens the configured log file for appending. With no file configured
// it returns fallback and a no-op closer.
func (c *Config) OpenLogFile(fallback io.Writer) (io.Writer, func() error, error) {
	if c.Log.File == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}
