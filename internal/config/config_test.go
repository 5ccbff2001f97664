// ABOUTME: Tests for liftlog configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, path expansion, and storage opening.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/liftlog/internal/models"
)

// isolate points config and env lookups at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvThreshold, "")
	return tmpDir
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
	if got := cfg.GetProgressionThreshold(); got != models.DefaultProgressionThreshold {
		t.Errorf("GetProgressionThreshold() = %d, want %d", got, models.DefaultProgressionThreshold)
	}
	if got := cfg.GetDefaultUser(); got != DefaultUser {
		t.Errorf("GetDefaultUser() = %q, want %q", got, DefaultUser)
	}
	if got := cfg.GetLogFile(); filepath.Base(got) != "liftlog.log" {
		t.Errorf("GetLogFile() = %q, want liftlog.log in data dir", got)
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/liftlog-test"}
	if got := cfg.GetDataDir(); got != "/tmp/liftlog-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/liftlog-test")
	}
	if got := cfg.GetDBPath(); got != "/tmp/liftlog-test/liftlog.db" {
		t.Errorf("GetDBPath() = %q", got)
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
		{"~/data/liftlog", filepath.Join(home, "data/liftlog")},
		{"data/liftlog", "data/liftlog"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.DataDir != "" || cfg.LogLevel != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		DataDir:              "/tmp/liftlog-data",
		LogLevel:             "debug",
		ProgressionThreshold: 5,
		DefaultUser:          "alice",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	if err := (&Config{DataDir: "/from/file", DefaultUser: "alice"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv(EnvDataDir, "/from/env")
	t.Setenv(EnvUser, "bob")
	t.Setenv(EnvThreshold, "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", cfg.DataDir)
	}
	if cfg.DefaultUser != "bob" {
		t.Errorf("DefaultUser = %q, want bob", cfg.DefaultUser)
	}
	if cfg.ProgressionThreshold != 4 {
		t.Errorf("ProgressionThreshold = %d, want 4", cfg.ProgressionThreshold)
	}
}

func TestEnvThresholdInvalid(t *testing.T) {
	isolate(t)
	t.Setenv(EnvThreshold, "zero")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric threshold")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "liftlog")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	want := filepath.Join(tmpDir, "liftlog", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSeedsCatalog(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir, ProgressionThreshold: 4}
	ctx := context.Background()

	repo, err := cfg.OpenStorage(ctx)
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "liftlog.db")); os.IsNotExist(err) {
		t.Error("Expected liftlog.db to be created")
	}

	m, err := repo.GetMovement(ctx, "Deadlift")
	if err != nil {
		t.Fatalf("GetMovement failed: %v", err)
	}
	if m.ProgressionThreshold != 4 {
		t.Errorf("ProgressionThreshold = %d, want 4", m.ProgressionThreshold)
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
