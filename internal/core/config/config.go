// Package config handles configuration loading and validation for taskboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/taskboard/internal/core/styles"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	UserID   string         `yaml:"user_id"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Tasks    TasksConfig    `yaml:"tasks"`
	Theme    string         `yaml:"theme"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// AuthConfig configures how the signed-in user is resolved. A token takes
// precedence over user_id when both are set.
type AuthConfig struct {
	Token  string `yaml:"token"`  // HS256 JWT whose subject is the user id
	Secret string `yaml:"secret"` // key used to verify Token
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`         // sqlite or postgres
	DSN          string `yaml:"dsn"`            // postgres connection string; ignored for sqlite
	MaxOpenConns int    `yaml:"max_open_conns"` // maximum open connections
	MaxIdleConns int    `yaml:"max_idle_conns"` // maximum idle connections
	BusyTimeout  int    `yaml:"busy_timeout"`   // sqlite busy timeout in milliseconds
}

// TasksConfig holds task list preferences.
type TasksConfig struct {
	DefaultFilter   string `yaml:"default_filter"`   // All, Completed or Pending
	DefaultPriority string `yaml:"default_priority"` // High, Medium or Low
	ConfirmDelete   bool   `yaml:"confirm_delete"`   // ask before deleting
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			MaxOpenConns: 2,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		Tasks: TasksConfig{
			DefaultFilter:   "All",
			DefaultPriority: "Medium",
			ConfirmDelete:   true,
		},
		Theme: styles.DefaultTheme,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Database.Driver == "" {
		c.Database.Driver = defaults.Database.Driver
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Tasks.DefaultFilter == "" {
		c.Tasks.DefaultFilter = defaults.Tasks.DefaultFilter
	}
	if c.Tasks.DefaultPriority == "" {
		c.Tasks.DefaultPriority = defaults.Tasks.DefaultPriority
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// DatabaseFile returns the path to the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "taskboard.db")
}

// LogFile returns the path to the log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "taskboard.log")
}
