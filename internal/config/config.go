// ABOUTME: Mood configuration management with backend selection.
// ABOUTME: Loads the JSON config file, applies MOOD_* overrides, and opens storage.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/mood/internal/storage"
	"github.com/joho/godotenv"
)

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendRedis  = "redis"
)

// DefaultAnalysisInterval is used when analysis_interval is unset.
const DefaultAnalysisInterval = 6 * time.Hour

// Config stores mood tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger", "charm" or "redis".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data.
	// SQLite puts mood.db here; Badger uses a badger/ subdirectory.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/mood.
	DataDir string `json:"data_dir,omitempty"`

	// RedisURL is required for the redis backend (redis://host:port/db).
	RedisURL string `json:"redis_url,omitempty"`

	// Timezone is an IANA zone name used for calendar days and hours.
	// Empty means the system zone.
	Timezone string `json:"timezone,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// AnalysisInterval is a Go duration ("6h") between daemon analysis runs.
	AnalysisInterval string `json:"analysis_interval,omitempty"`

	// MetricsAddr, when set, makes the daemon serve /metrics on this address.
	MetricsAddr string `json:"metrics_addr,omitempty"`

	// MorningReminder and EveningReminder are "HH:MM" times at which the
	// daemon logs a reminder if that check-in is missing.
	MorningReminder string `json:"morning_reminder,omitempty"`
	EveningReminder string `json:"evening_reminder,omitempty"`
}

// envOverrides maps environment variables to the fields they replace.
func (c *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"MOOD_BACKEND":           &c.Backend,
		"MOOD_DATA_DIR":          &c.DataDir,
		"MOOD_REDIS_URL":         &c.RedisURL,
		"MOOD_TIMEZONE":          &c.Timezone,
		"MOOD_LOG_LEVEL":         &c.LogLevel,
		"MOOD_LOG_FORMAT":        &c.LogFormat,
		"MOOD_ANALYSIS_INTERVAL": &c.AnalysisInterval,
		"MOOD_METRICS_ADDR":      &c.MetricsAddr,
		"MOOD_MORNING_REMINDER":  &c.MorningReminder,
		"MOOD_EVENING_REMINDER":  &c.EveningReminder,
	}
}

// ApplyEnv overwrites fields with any non-empty MOOD_* environment variables.
func (c *Config) ApplyEnv() {
	for name, field := range c.envOverrides() {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*field = v
		}
	}
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// Location resolves Timezone, defaulting to the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetAnalysisInterval parses AnalysisInterval, defaulting to six hours.
func (c *Config) GetAnalysisInterval() (time.Duration, error) {
	if c.AnalysisInterval == "" {
		return DefaultAnalysisInterval, nil
	}
	d, err := time.ParseDuration(c.AnalysisInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid analysis_interval %q: %w", c.AnalysisInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("analysis_interval must be positive, got %s", d)
	}
	return d, nil
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

// StoragePath returns the on-disk location of the sqlite file or badger
// directory. It is empty for backends that manage their own location.
func (c *Config) StoragePath() string {
	switch c.GetBackend() {
	case BackendSQLite:
		return filepath.Join(c.GetDataDir(), "mood.db")
	case BackendBadger:
		return filepath.Join(c.GetDataDir(), "badger")
	default:
		return ""
	}
}

// OpenStorage opens a Store for the configured backend.
func (c *Config) OpenStorage() (*storage.Store, error) {
	switch backend := c.GetBackend(); backend {
	case BackendSQLite:
		return storage.OpenSQLite(c.StoragePath())
	case BackendBadger:
		return storage.OpenBadger(c.StoragePath())
	case BackendCharm:
		return storage.OpenCharm()
	case BackendRedis:
		if c.RedisURL == "" {
			return nil, errors.New("redis backend requires redis_url")
		}
		return storage.OpenRedis(c.RedisURL)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "mood", "config.json")
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
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
