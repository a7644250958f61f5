package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/theirongolddev/tally/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDataDir, EnvBackend, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.General.Backend)
	}
	if !slices.Equal(cfg.Records.Categories, model.DefaultCategories) {
		t.Errorf("Categories = %v, want defaults", cfg.Records.Categories)
	}
	if cfg.Appearance.Currency != "Q." {
		t.Errorf("Currency = %q, want Q.", cfg.Appearance.Currency)
	}
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tally", "config.toml")

	cfg := DefaultConfig()
	cfg.General.DataDir = "/tmp/tally-data"
	cfg.General.Backend = "sqlite"
	cfg.Records.Categories = []string{"Food", "Rent"}
	cfg.Appearance.Currency = "$"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General != cfg.General {
		t.Errorf("General = %+v, want %+v", got.General, cfg.General)
	}
	if !slices.Equal(got.Records.Categories, cfg.Records.Categories) {
		t.Errorf("Categories = %v, want %v", got.Records.Categories, cfg.Records.Categories)
	}
	if got.Appearance.Currency != "$" {
		t.Errorf("Currency = %q, want $", got.Appearance.Currency)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[general]\nbackend = \"bolt\"\ndata_dir = \"/from/file\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvBackend, "memory")
	t.Setenv(EnvDataDir, "/from/env")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.General.Backend)
	}
	if cfg.DataDir() != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", cfg.DataDir())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestEmptyCategoriesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[records]\ncategories = []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(cfg.Records.Categories) != len(model.DefaultCategories) {
		t.Errorf("got %d categories, want %d", len(cfg.Records.Categories), len(model.DefaultCategories))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"sqlite", func(c *Config) { c.General.Backend = "sqlite" }, false},
		{"unknown backend", func(c *Config) { c.General.Backend = "postgres" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFrom_BadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom accepted malformed TOML")
	}
}

func TestDirsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	if got := ConfigPath(); got != filepath.Join("/xdg/config", "tally", "config.toml") {
		t.Errorf("ConfigPath = %q", got)
	}
	if got := DefaultConfig().DataDir(); got != filepath.Join("/xdg/data", "tally") {
		t.Errorf("DataDir = %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "TALLY_TEST_DOTENV"
	t.Cleanup(func() { _ = os.Unsetenv(key) })
	dir := t.TempDir()

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env: %v", err)
	}

	good := filepath.Join(dir, "good.env")
	if err := os.WriteFile(good, []byte(key+"=bolt\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := loadDotEnv(good); err != nil {
		t.Fatalf("good .env: %v", err)
	}
	if got := os.Getenv(key); got != "bolt" {
		t.Errorf("%s = %q, want bolt", key, got)
	}

	bad := filepath.Join(dir, "bad.env")
	if err := os.WriteFile(bad, []byte("TALLY_BROKEN=\"unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := loadDotEnv(bad); err == nil {
		t.Error("malformed .env was accepted")
	}
}
