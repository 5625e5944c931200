// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Plex     PlexConfig     `koanf:"plex"`
	Tautulli TautulliConfig `koanf:"tautulli"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Posters  PosterConfig   `koanf:"posters"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PlexConfig holds Plex Media Server connection settings.
// Plex is only used as a secondary artwork source.
type PlexConfig struct {
	URL     string        `koanf:"url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

// TautulliConfig holds Tautulli API settings.
type TautulliConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// AllowedCommands limits which API commands /api/tautulli/{cmd} will forward.
	// Entries ending in '*' match by prefix.
	AllowedCommands []string `koanf:"allowed_commands"`
}

// TMDBConfig holds The Movie Database API settings.
type TMDBConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url"`
	ImageBaseURL string        `koanf:"image_base_url"`
	PosterSize   string        `koanf:"poster_size"`
	Language     string        `koanf:"language"`
	Timeout      time.Duration `koanf:"timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// PublicBaseURL prefixes poster URLs in API responses (VITE_API_BASE_URL).
	// Empty produces root-relative URLs.
	PublicBaseURL string `koanf:"public_base_url"`
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	DataDir        string `koanf:"data_dir"`
	FormatsFile    string `koanf:"formats_file"`
	PosterCacheDir string `koanf:"poster_cache_dir"`
}

// PosterConfig tunes the poster cache.
type PosterConfig struct {
	MemoryEntries   int           `koanf:"memory_entries"`
	TTL             time.Duration `koanf:"ttl"`
	PlaceholderTTL  time.Duration `koanf:"placeholder_ttl"`
	UpstreamRPS     float64       `koanf:"upstream_rps"`
	UpstreamBurst   int           `koanf:"upstream_burst"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	MaxBytes        int64         `koanf:"max_bytes"`
	Width           int           `koanf:"width"`
	Height          int           `koanf:"height"`
	PrefetchWorkers int           `koanf:"prefetch_workers"`
	GCInterval      time.Duration `koanf:"gc_interval"`
}

// APIConfig tunes the typed Tautulli response cache.
type APIConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	BufferSize int    `koanf:"buffer_size"`
}

// Load reads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// TautulliEnabled reports whether a Tautulli server is configured.
func (c *Config) TautulliEnabled() bool {
	return c.Tautulli.URL != "" && c.Tautulli.APIKey != ""
}

// PlexEnabled reports whether a Plex server is configured.
func (c *Config) PlexEnabled() bool {
	return c.Plex.URL != "" && c.Plex.Token != ""
}

// TMDBEnabled reports whether TMDB lookups are possible.
func (c *Config) TMDBEnabled() bool {
	return c.TMDB.APIKey != ""
}

// FormatsPath returns the absolute location of formats.json.
func (c *Config) FormatsPath() string {
	if filepath.IsAbs(c.Storage.FormatsFile) {
		return c.Storage.FormatsFile
	}
	return filepath.Join(c.Storage.DataDir, c.Storage.FormatsFile)
}

// PosterDir returns the directory of the persisted poster cache.
func (c *Config) PosterDir() string {
	if c.Storage.PosterCacheDir != "" {
		return c.Storage.PosterCacheDir
	}
	return filepath.Join(c.Storage.DataDir, "posters")
}

// PublicURL joins path onto the configured public base URL.
func (c *Config) PublicURL(path string) string {
	base := strings.TrimRight(c.Server.PublicBaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
