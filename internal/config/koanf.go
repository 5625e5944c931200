// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/plexboard/internal/logging"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/plexboard/config.yaml",
	"/etc/plexboard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultAllowedTautulliCommands are the commands the passthrough proxy forwards
// when none are configured. Only read commands are included.
var DefaultAllowedTautulliCommands = []string{"get_*", "arnold", "pms_image_proxy", "search"}

func defaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			Timeout: 30 * time.Second,
		},
		Tautulli: TautulliConfig{
			Timeout:         30 * time.Second,
			AllowedCommands: DefaultAllowedTautulliCommands,
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			PosterSize:   "w500",
			Language:     "en-US",
			Timeout:      15 * time.Second,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3001,
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			DataDir:     "./data",
			FormatsFile: "formats.json",
		},
		Posters: PosterConfig{
			MemoryEntries:   500,
			TTL:             7 * 24 * time.Hour,
			PlaceholderTTL:  time.Hour,
			UpstreamRPS:     5,
			UpstreamBurst:   10,
			FetchTimeout:    15 * time.Second,
			MaxBytes:        5 << 20,
			Width:           300,
			Height:          450,
			PrefetchWorkers: 4,
			GCInterval:      30 * time.Minute,
		},
		API: APIConfig{
			CacheTTL: time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			BufferSize: 1000,
		},
	}
}

// LoadWithKoanf loads configuration in three layers:
//  1. built-in defaults
//  2. optional YAML config file
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// normalize trims values that commonly arrive with stray whitespace or slashes.
func (c *Config) normalize() {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Tautulli.URL = strings.TrimRight(strings.TrimSpace(c.Tautulli.URL), "/")
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	c.Server.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Server.PublicBaseURL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	c.Tautulli.APIKey = strings.TrimSpace(c.Tautulli.APIKey)
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// FindConfigFile returns the config file that Load would use, or "".
func FindConfigFile() string {
	return findConfigFile()
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"tautulli.allowed_commands",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"plex_url":     "plex.url",
	"plex_token":   "plex.token",
	"plex_timeout": "plex.timeout",

	"tautulli_url":              "tautulli.url",
	"tautulli_api_key":          "tautulli.api_key",
	"tautulli_apikey":           "tautulli.api_key",
	"tautulli_timeout":          "tautulli.timeout",
	"tautulli_allowed_commands": "tautulli.allowed_commands",

	"tmdb_api_key":        "tmdb.api_key",
	"tmdb_base_url":       "tmdb.base_url",
	"tmdb_image_base_url": "tmdb.image_base_url",
	"tmdb_poster_size":    "tmdb.poster_size",
	"tmdb_language":       "tmdb.language",

	"http_host":         "server.host",
	"http_port":         "server.port",
	"port":              "server.port",
	"server_timeout":    "server.timeout",
	"vite_api_base_url": "server.public_base_url",
	"public_base_url":   "server.public_base_url",

	"data_dir":         "storage.data_dir",
	"formats_file":     "storage.formats_file",
	"poster_cache_dir": "storage.poster_cache_dir",

	"poster_memory_entries":   "posters.memory_entries",
	"poster_ttl":              "posters.ttl",
	"poster_placeholder_ttl":  "posters.placeholder_ttl",
	"poster_upstream_rps":     "posters.upstream_rps",
	"poster_upstream_burst":   "posters.upstream_burst",
	"poster_fetch_timeout":    "posters.fetch_timeout",
	"poster_max_bytes":        "posters.max_bytes",
	"poster_width":            "posters.width",
	"poster_height":           "posters.height",
	"poster_prefetch_workers": "posters.prefetch_workers",
	"poster_gc_interval":      "posters.gc_interval",

	"api_cache_ttl": "api.cache_ttl",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":       "logging.level",
	"log_format":      "logging.format",
	"log_caller":      "logging.caller",
	"log_file":        "logging.file",
	"log_max_size_mb": "logging.max_size_mb",
	"log_max_backups": "logging.max_backups",
	"log_max_age":     "logging.max_age_days",
	"log_buffer_size": "logging.buffer_size",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// LoadFile loads configuration using path as the config file.
func LoadFile(path string) (*Config, error) {
	return loadFrom(path)
}

// WatchFile invokes callback whenever the file at path changes. The watch
// survives editors that replace the file by rename.
func WatchFile(path string, callback func()) (*file.File, error) {
	provider := file.Provider(path)
	err := provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("File watch error")
			return
		}
		callback()
	})
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return provider, nil
}

// WatchConfigFile reloads and revalidates the config file on change and
// hands the result to onChange. Invalid edits are logged and ignored.
func WatchConfigFile(path string, onChange func(*Config)) (*file.File, error) {
	return WatchFile(path, func() {
		cfg, err := loadFrom(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid configuration change")
			return
		}
		logging.Info().Str("path", path).Msg("Configuration file reloaded")
		onChange(cfg)
	})
}
