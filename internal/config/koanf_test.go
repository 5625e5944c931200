// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"TAUTULLI_URL":      "tautulli.url",
		"PLEX_URL":          "plex.url",
		"VITE_API_BASE_URL": "server.public_base_url",
		"POSTER_TTL":        "posters.ttl",
		"LOG_LEVEL":         "logging.level",
		"HOME":              "",
		"PATH":              "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TAUTULLI_URL", "http://tautulli:8181/")
	t.Setenv("TAUTULLI_API_KEY", " secret ")
	t.Setenv("VITE_API_BASE_URL", "https://dash.example.com/")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("POSTER_TTL", "48h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TAUTULLI_ALLOWED_COMMANDS", "get_activity,get_users")

	cfg, err := loadFrom("")
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}

	if cfg.Tautulli.URL != "http://tautulli:8181" {
		t.Errorf("Tautulli.URL = %q, trailing slash should be trimmed", cfg.Tautulli.URL)
	}
	if cfg.Tautulli.APIKey != "secret" {
		t.Errorf("Tautulli.APIKey = %q", cfg.Tautulli.APIKey)
	}
	if cfg.Server.PublicBaseURL != "https://dash.example.com" {
		t.Errorf("Server.PublicBaseURL = %q", cfg.Server.PublicBaseURL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Posters.TTL != 48*time.Hour {
		t.Errorf("Posters.TTL = %v", cfg.Posters.TTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "http://b.test" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if len(cfg.Tautulli.AllowedCommands) != 2 {
		t.Errorf("Tautulli.AllowedCommands = %v", cfg.Tautulli.AllowedCommands)
	}
	if !cfg.TautulliEnabled() {
		t.Error("expected Tautulli to be enabled")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
tautulli:
  url: http://tautulli:8181
  api_key: fromfile
storage:
  data_dir: /srv/plexboard
posters:
  memory_entries: 42
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if cfg.Tautulli.APIKey != "fromfile" {
		t.Errorf("Tautulli.APIKey = %q", cfg.Tautulli.APIKey)
	}
	if cfg.Storage.DataDir != "/srv/plexboard" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Posters.MemoryEntries != 42 {
		t.Errorf("Posters.MemoryEntries = %d", cfg.Posters.MemoryEntries)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env should override file: Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Posters.TTL != 7*24*time.Hour {
		t.Errorf("defaults should survive file layer: Posters.TTL = %v", cfg.Posters.TTL)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Setenv("TAUTULLI_URL", "http://tautulli:8181")

	if _, err := loadFrom(""); err == nil {
		t.Fatal("expected validation error for URL without API key")
	}
}

func TestFindConfigFile_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if got := FindConfigFile(); got != path {
		t.Errorf("FindConfigFile() = %q, want %q", got, path)
	}
}
