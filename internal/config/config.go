// Package config loads and saves tally's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/theirongolddev/tally/internal/kv"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
)

// Environment variables that override the file.
const (
	EnvDataDir  = "TALLY_DATA_DIR"
	EnvBackend  = "TALLY_BACKEND"
	EnvLogLevel = "TALLY_LOG_LEVEL"
)

// Config holds all tally configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Records    RecordsConfig    `toml:"records"`
	Appearance AppearanceConfig `toml:"appearance"`
	Export     ExportConfig     `toml:"export"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig selects where and how records are stored.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	Backend string `toml:"backend"`
}

// RecordsConfig holds the accepted category labels.
type RecordsConfig struct {
	Categories []string `toml:"categories"`
}

// AppearanceConfig holds theme and currency display settings.
type AppearanceConfig struct {
	Theme    string `toml:"theme"`
	Currency string `toml:"currency"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Backend: kv.BackendFile,
		},
		Records: RecordsConfig{
			Categories: slices.Clone(model.DefaultCategories),
		},
		Appearance: AppearanceConfig{
			Theme:    "flexoki-dark",
			Currency: "Q.",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tally")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tally")
}

// DataDir returns the configured data directory, or the default one.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// ExportDir returns the directory CSV files are written to.
func (c Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return "."
}

// LogFile returns the TUI log file path.
func (c Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir(), "tally.log")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides. A .env file in the working directory is
// loaded first when present.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit config path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := loadDotEnv(".env"); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	if len(cfg.Records.Categories) == 0 {
		cfg.Records.Categories = slices.Clone(model.DefaultCategories)
	}

	return cfg, cfg.Validate()
}

// loadDotEnv sets variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("reading %s: %w", path, err)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.General.DataDir = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.General.Backend = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects unknown backends and log levels.
func (c Config) Validate() error {
	if c.General.Backend != "" && !slices.Contains(kv.Backends(), c.General.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %v)", c.General.Backend, kv.Backends())
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes cfg as TOML to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
