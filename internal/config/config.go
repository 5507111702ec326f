// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all contacts configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Flash    Flash    `yaml:"flash"`
	Log      Log      `yaml:"log"`
	Theme    Theme    `yaml:"theme"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Database selects the store. A postgres:// or postgresql:// URL selects
// postgres, anything else is a SQLite file path.
type Database struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// Flash holds the signing secret and lifetime of flash cookies.
type Flash struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Log holds logger settings.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Theme picks the go-theme variant used for rendering.
type Theme struct {
	Variant string `yaml:"variant"` // "light" | "dark"
}

// Environment variables read by ApplyEnv.
const (
	EnvDatabaseURL  = "DATABASE_URL"
	EnvAddr         = "CONTACTS_ADDR"
	EnvLogLevel     = "CONTACTS_LOG_LEVEL"
	EnvFlashSecret  = "CONTACTS_FLASH_SECRET"
	EnvThemeVariant = "CONTACTS_THEME_VARIANT"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Addr:              "127.0.0.1:3000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: Database{
			URL:          "contacts.db",
			MaxOpenConns: 8,
			MaxIdleConns: 4,
		},
		Flash: Flash{
			TTL: 5 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
		Theme: Theme{
			Variant: "light",
		},
	}
}

// IsPostgres reports whether the database URL points at postgres.
func (d Database) IsPostgres() bool {
	url := strings.ToLower(strings.TrimSpace(d.URL))
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Load reads a single YAML config file at path and returns a Config.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// LoadDotEnv loads KEY=value files into the process environment. Variables
// already set win over file values and missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: loading %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr cannot be empty")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("config: server.read_header_timeout must be positive, got %v", c.Server.ReadHeaderTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("config: database.url cannot be empty")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("config: database.max_open_conns must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("config: database.max_idle_conns must be non-negative, got %d", c.Database.MaxIdleConns)
	}
	if c.Flash.TTL <= 0 {
		return fmt.Errorf("config: flash.ttl must be positive, got %v", c.Flash.TTL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Theme.Variant {
	case "light", "dark":
	default:
		return fmt.Errorf("config: theme.variant must be \"light\" or \"dark\", got %q", c.Theme.Variant)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: DATABASE_URL, CONTACTS_ADDR, CONTACTS_LOG_LEVEL,
// CONTACTS_FLASH_SECRET, CONTACTS_THEME_VARIANT.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvFlashSecret); v != "" {
		c.Flash.Secret = v
	}
	if v := os.Getenv(EnvThemeVariant); v != "" {
		c.Theme.Variant = v
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Server   *rawServer   `yaml:"server"`
	Database *rawDatabase `yaml:"database"`
	Flash    *rawFlash    `yaml:"flash"`
	Log      *rawLog      `yaml:"log"`
	Theme    *rawTheme    `yaml:"theme"`
}

type rawServer struct {
	Addr              *string        `yaml:"addr"`
	ReadHeaderTimeout *time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   *time.Duration `yaml:"shutdown_timeout"`
}

type rawDatabase struct {
	URL          *string `yaml:"url"`
	MaxOpenConns *int    `yaml:"max_open_conns"`
	MaxIdleConns *int    `yaml:"max_idle_conns"`
}

type rawFlash struct {
	Secret *string        `yaml:"secret"`
	TTL    *time.Duration `yaml:"ttl"`
}

type rawLog struct {
	Level       *string `yaml:"level"`
	Development *bool   `yaml:"development"`
}

type rawTheme struct {
	Variant *string `yaml:"variant"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if s := layer.Server; s != nil {
		set(&c.Server.Addr, s.Addr)
		set(&c.Server.ReadHeaderTimeout, s.ReadHeaderTimeout)
		set(&c.Server.ShutdownTimeout, s.ShutdownTimeout)
	}
	if d := layer.Database; d != nil {
		set(&c.Database.URL, d.URL)
		set(&c.Database.MaxOpenConns, d.MaxOpenConns)
		set(&c.Database.MaxIdleConns, d.MaxIdleConns)
	}
	if f := layer.Flash; f != nil {
		set(&c.Flash.Secret, f.Secret)
		set(&c.Flash.TTL, f.TTL)
	}
	if l := layer.Log; l != nil {
		set(&c.Log.Level, l.Level)
		set(&c.Log.Development, l.Development)
	}
	if t := layer.Theme; t != nil {
		set(&c.Theme.Variant, t.Variant)
	}
}
