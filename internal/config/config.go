package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperengineering/lantern/internal/types"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Window   WindowConfig   `yaml:"window"`
	Prayer   PrayerConfig   `yaml:"prayer"`
	Worker   WorkerConfig   `yaml:"worker"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WindowConfig anchors the 30-day tracking period and the time zone that
// defines a calendar day.
type WindowConfig struct {
	Start    string `yaml:"start"`
	Timezone string `yaml:"timezone"`
}

// PrayerConfig contains prayer-time lookup settings.
type PrayerConfig struct {
	Enabled  bool     `yaml:"enabled"`
	BaseURL  string   `yaml:"base_url"`
	City     string   `yaml:"city"`
	Country  string   `yaml:"country"`
	Method   int      `yaml:"method"`
	Timeout  Duration `yaml:"timeout"`
	RetryMax int      `yaml:"retry_max"`
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	PrayerWarmInterval Duration `yaml:"prayer_warm_interval"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	// Determine config path
	configPath := getEnv("LANTERN_CONFIG_PATH", "config/lantern.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	// Load YAML file (file must exist for this function)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/lantern.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Window: WindowConfig{
			Start:    "2026-02-28",
			Timezone: "Local",
		},
		Prayer: PrayerConfig{
			Enabled:  true,
			BaseURL:  "https://api.aladhan.com/v1",
			City:     "Dhaka",
			Country:  "BD",
			Method:   2,
			Timeout:  Duration(10 * time.Second),
			RetryMax: 3,
		},
		Worker: WorkerConfig{
			PrayerWarmInterval: Duration(6 * time.Hour),
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file is OK; use defaults
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("LANTERN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LANTERN_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("LANTERN_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("LANTERN_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Database
	if v := os.Getenv("LANTERN_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Log
	if v := os.Getenv("LANTERN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LANTERN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Window
	if v := os.Getenv("LANTERN_WINDOW_START"); v != "" {
		cfg.Window.Start = v
	}
	if v := os.Getenv("LANTERN_TIMEZONE"); v != "" {
		cfg.Window.Timezone = v
	}

	// Prayer
	if v := os.Getenv("LANTERN_PRAYER_ENABLED"); v != "" {
		cfg.Prayer.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("LANTERN_PRAYER_BASE_URL"); v != "" {
		cfg.Prayer.BaseURL = v
	}
	if v := os.Getenv("LANTERN_PRAYER_CITY"); v != "" {
		cfg.Prayer.City = v
	}
	if v := os.Getenv("LANTERN_PRAYER_COUNTRY"); v != "" {
		cfg.Prayer.Country = v
	}
	if v := os.Getenv("LANTERN_PRAYER_METHOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Prayer.Method = n
		}
	}
	if v := os.Getenv("LANTERN_PRAYER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Prayer.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("LANTERN_PRAYER_RETRY_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Prayer.RetryMax = n
		}
	}

	// Worker
	if v := os.Getenv("LANTERN_PRAYER_WARM_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Worker.PrayerWarmInterval = Duration(d)
		}
	}
}

// validate checks that configuration values are usable.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format %q must be json or text", c.Log.Format)
	}
	if _, err := types.ParseDayKey(c.Window.Start); err != nil {
		return fmt.Errorf("window start: %w", err)
	}
	if _, err := c.Window.Location(); err != nil {
		return err
	}
	if c.Prayer.Enabled {
		if strings.TrimSpace(c.Prayer.City) == "" {
			return errors.New("prayer city is required when prayer lookup is enabled")
		}
		if c.Prayer.Method < 0 {
			return fmt.Errorf("prayer method %d must not be negative", c.Prayer.Method)
		}
		if c.Prayer.RetryMax < 0 {
			return fmt.Errorf("prayer retry_max %d must not be negative", c.Prayer.RetryMax)
		}
		if c.Worker.PrayerWarmInterval <= 0 {
			return errors.New("worker prayer_warm_interval must be positive")
		}
	}
	return nil
}

// Location resolves the configured time zone. "" and "Local" mean the host zone.
func (w WindowConfig) Location() (*time.Location, error) {
	if w.Timezone == "" || w.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", w.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
