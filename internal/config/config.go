// Package config loads Tosticker configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultListen is the address the backend binds when none is configured.
	DefaultListen = "127.0.0.1:7466"
	// DatabaseFile is the SQLite file name inside the data directory.
	DatabaseFile = "mindflow.db"
	// DefaultReminderInterval is the period of the reminder check.
	DefaultReminderInterval = 60 * time.Second
)

// Environment variables that override file settings.
const (
	EnvDB               = "TOSTICKER_DB"
	EnvListen           = "TOSTICKER_LISTEN"
	EnvLogLevel         = "TOSTICKER_LOG_LEVEL"
	EnvLogFormat        = "TOSTICKER_LOG_FORMAT"
	EnvReminderInterval = "TOSTICKER_REMINDER_INTERVAL"
	EnvMaxConns         = "TOSTICKER_MAX_CONNS"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Reminder ReminderConfig `yaml:"reminder"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the command HTTP server.
type ServerConfig struct {
	// Listen is the host:port the API binds to.
	Listen string `yaml:"listen"`
}

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	// Path is the database file. Defaults to ~/.tosticker/mindflow.db.
	Path string `yaml:"path"`
	// MaxConns bounds the connection pool.
	MaxConns int `yaml:"max_conns"`
}

// ReminderConfig configures the background reminder check.
type ReminderConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// DefaultDataDir returns ~/.tosticker.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".tosticker"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	dbPath := DatabaseFile
	if dir, err := DefaultDataDir(); err == nil {
		dbPath = filepath.Join(dir, DatabaseFile)
	}
	return &Config{
		Server: ServerConfig{Listen: DefaultListen},
		Store: StoreConfig{
			Path:     dbPath,
			MaxConns: 5,
		},
		Reminder: ReminderConfig{Interval: DefaultReminderInterval},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads ~/.tosticker/config.yaml.
func LoadFromHome() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}
	return Load(path)
}

// Save writes cfg to path, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Store.MaxConns < 1 {
		return fmt.Errorf("store.max_conns must be at least 1")
	}
	if c.Reminder.Interval < time.Second {
		return fmt.Errorf("reminder.interval must be at least 1s, got %s", c.Reminder.Interval)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format %q, must be: text or json", c.Log.Format)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvReminderInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvReminderInterval, err)
		}
		c.Reminder.Interval = d
	}
	if v := os.Getenv(EnvMaxConns); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvMaxConns, err)
		}
		c.Store.MaxConns = n
	}
	return nil
}
