// ABOUTME: Tests for mood configuration management.
// ABOUTME: Covers load, save, env overrides, .env files, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// isolateConfig points XDG_CONFIG_HOME at a temp dir and clears MOOD_* overrides.
func isolateConfig(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for name := range (&Config{}).envOverrides() {
		t.Setenv(name, "")
	}
	return tmpDir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "Badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/mood-test"}
	if got := cfg.GetDataDir(); got != "/tmp/mood-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/mood-test")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/mood", filepath.Join(home, "data/mood")},
		{"data/mood", "data/mood"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/mood-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "mood-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v; want time.Local", loc, err)
	}

	cfg.Timezone = "America/Chicago"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location() failed: %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("Location() = %s, want America/Chicago", loc)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestGetAnalysisInterval(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", DefaultAnalysisInterval, false},
		{"30m", 30 * time.Minute, false},
		{"banana", 0, true},
		{"-1h", 0, true},
	}

	for _, tt := range tests {
		cfg := &Config{AnalysisInterval: tt.in}
		got, err := cfg.GetAnalysisInterval()
		if tt.wantErr {
			if err == nil {
				t.Errorf("GetAnalysisInterval(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("GetAnalysisInterval(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Backend != "" {
		t.Errorf("Expected empty Backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolateConfig(t)

	cfg := &Config{
		Backend:          "badger",
		DataDir:          "/tmp/mood-data",
		Timezone:         "Europe/Berlin",
		AnalysisInterval: "2h",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Backend != "badger" {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, "badger")
	}
	if loaded.DataDir != "/tmp/mood-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/mood-data")
	}
	if loaded.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone mismatch: got %q", loaded.Timezone)
	}
	if loaded.AnalysisInterval != "2h" {
		t.Errorf("AnalysisInterval mismatch: got %q", loaded.AnalysisInterval)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolateConfig(t)

	if err := (&Config{Backend: "sqlite", LogLevel: "info"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv("MOOD_BACKEND", "redis")
	t.Setenv("MOOD_REDIS_URL", "redis://localhost:6379/2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "redis" {
		t.Errorf("Backend = %q, want env override redis", cfg.Backend)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want file value kept", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("MOOD_TIMEZONE=Asia/Tokyo\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// t.Setenv("", ...) above leaves the variable set but empty; unset it so
	// godotenv will fill it.
	os.Unsetenv("MOOD_TIMEZONE")
	t.Cleanup(func() { os.Unsetenv("MOOD_TIMEZONE") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want value from .env", cfg.Timezone)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolateConfig(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "mood")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolateConfig(t)

	configDir := filepath.Join(tmpDir, "mood")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolateConfig(t)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "mood", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"sqlite", filepath.Join("/data", "mood.db")},
		{"badger", filepath.Join("/data", "badger")},
		{"redis", ""},
		{"charm", ""},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := &Config{Backend: tt.backend, DataDir: "/data"}
			if got := cfg.StoragePath(); got != tt.want {
				t.Errorf("StoragePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if repo.Name() != "sqlite" {
		t.Errorf("Name() = %q, want sqlite", repo.Name())
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "mood.db")); os.IsNotExist(err) {
		t.Error("Expected mood.db to be created")
	}
}

func TestOpenStorageBadger(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{Backend: "badger", DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for badger failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenStorageRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &Config{Backend: "redis", RedisURL: "redis://" + mr.Addr() + "/0"}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for redis failed: %v", err)
	}
	defer repo.Close()

	if repo.Name() != "redis" {
		t.Errorf("Name() = %q, want redis", repo.Name())
	}
}

func TestOpenStorageRedisNeedsURL(t *testing.T) {
	cfg := &Config{Backend: "redis"}
	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error when redis_url is missing")
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}
	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()

	if repo.Name() != "sqlite" {
		t.Errorf("default backend = %q, want sqlite", repo.Name())
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{
		Backend:     "charm",
		DataDir:     "~/mood-data",
		MetricsAddr: ":9091",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, *cfg)
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
