// ABOUTME: liftlog configuration management with environment overrides.
// ABOUTME: Handles settings, preferences, and the storage factory function.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataDir   = "LIFTLOG_DATA_DIR"
	EnvLogLevel  = "LIFTLOG_LOG_LEVEL"
	EnvUser      = "LIFTLOG_USER"
	EnvThreshold = "LIFTLOG_PROGRESSION_THRESHOLD"
)

// DefaultUser is used when no user is configured or passed on the command line.
const DefaultUser = "default"

// Config stores liftlog configuration.
type Config struct {
	// DataDir is the root directory for data storage; liftlog.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/liftlog.
	DataDir string `json:"data_dir,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	// LogFile defaults to liftlog.log in the data directory.
	LogFile string `json:"log_file,omitempty"`

	// ProgressionThreshold is the window size given to newly seeded movements.
	ProgressionThreshold int `json:"progression_threshold,omitempty"`

	DefaultUser string `json:"default_user,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite database path inside the data directory.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), "liftlog.db")
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetLogFile returns the log file path.
func (c *Config) GetLogFile() string {
	if c.LogFile == "" {
		return filepath.Join(c.GetDataDir(), "liftlog.log")
	}
	return ExpandPath(c.LogFile)
}

// GetProgressionThreshold returns the seeding window size.
func (c *Config) GetProgressionThreshold() int {
	if c.ProgressionThreshold <= 0 {
		return models.DefaultProgressionThreshold
	}
	return c.ProgressionThreshold
}

// GetDefaultUser returns the user to attribute workouts to when none is given.
func (c *Config) GetDefaultUser() string {
	if c.DefaultUser == "" {
		return DefaultUser
	}
	return c.DefaultUser
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite database and makes sure the movement catalog is seeded.
func (c *Config) OpenStorage(ctx context.Context) (storage.Repository, error) {
	db, err := storage.Open(c.GetDBPath())
	if err != nil {
		return nil, err
	}

	if err := db.SeedMovements(ctx, models.Catalog, c.GetProgressionThreshold()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed movement catalog: %w", err)
	}
	return db, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// Load reads config from disk, then applies environment overrides.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(GetConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LIFTLOG_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		c.DefaultUser = v
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvThreshold, v)
		}
		c.ProgressionThreshold = n
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
