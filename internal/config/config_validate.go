// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateTautulli(); err != nil {
		return err
	}
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validatePosters(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateTautulli requires URL and API key together. Tautulli is optional.
func (c *Config) validateTautulli() error {
	if c.Tautulli.URL == "" && c.Tautulli.APIKey == "" {
		return nil
	}
	if c.Tautulli.URL == "" {
		return fmt.Errorf("TAUTULLI_URL is required when TAUTULLI_API_KEY is set")
	}
	if c.Tautulli.APIKey == "" {
		return fmt.Errorf("TAUTULLI_API_KEY is required when TAUTULLI_URL is set")
	}
	if err := checkBaseURL("TAUTULLI_URL", c.Tautulli.URL); err != nil {
		return err
	}
	if len(c.Tautulli.AllowedCommands) == 0 {
		return fmt.Errorf("TAUTULLI_ALLOWED_COMMANDS must not be empty")
	}
	return nil
}

// validatePlex requires URL and token together. Plex is optional.
func (c *Config) validatePlex() error {
	if c.Plex.URL == "" && c.Plex.Token == "" {
		return nil
	}
	if c.Plex.URL == "" {
		return fmt.Errorf("PLEX_URL is required when PLEX_TOKEN is set")
	}
	if c.Plex.Token == "" {
		return fmt.Errorf("PLEX_TOKEN is required when PLEX_URL is set")
	}
	return checkBaseURL("PLEX_URL", c.Plex.URL)
}

func (c *Config) validateTMDB() error {
	if !c.TMDBEnabled() {
		return nil
	}
	if err := checkBaseURL("TMDB_BASE_URL", c.TMDB.BaseURL); err != nil {
		return err
	}
	if err := checkBaseURL("TMDB_IMAGE_BASE_URL", c.TMDB.ImageBaseURL); err != nil {
		return err
	}
	if c.TMDB.PosterSize == "" {
		return fmt.Errorf("TMDB_POSTER_SIZE must not be empty")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("SERVER_TIMEOUT must be at least 1s, got %v", c.Server.Timeout)
	}
	if c.Server.PublicBaseURL != "" {
		return checkBaseURL("VITE_API_BASE_URL", c.Server.PublicBaseURL)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Storage.FormatsFile == "" {
		return fmt.Errorf("FORMATS_FILE must not be empty")
	}
	return nil
}

func (c *Config) validatePosters() error {
	p := c.Posters
	switch {
	case p.MemoryEntries < 1:
		return fmt.Errorf("POSTER_MEMORY_ENTRIES must be at least 1, got %d", p.MemoryEntries)
	case p.TTL < time.Minute:
		return fmt.Errorf("POSTER_TTL must be at least 1m, got %v", p.TTL)
	case p.PlaceholderTTL <= 0 || p.PlaceholderTTL > p.TTL:
		return fmt.Errorf("POSTER_PLACEHOLDER_TTL must be positive and not exceed POSTER_TTL, got %v", p.PlaceholderTTL)
	case p.UpstreamRPS <= 0:
		return fmt.Errorf("POSTER_UPSTREAM_RPS must be positive, got %v", p.UpstreamRPS)
	case p.UpstreamBurst < 1:
		return fmt.Errorf("POSTER_UPSTREAM_BURST must be at least 1, got %d", p.UpstreamBurst)
	case p.FetchTimeout <= 0:
		return fmt.Errorf("POSTER_FETCH_TIMEOUT must be positive, got %v", p.FetchTimeout)
	case p.MaxBytes < 1024:
		return fmt.Errorf("POSTER_MAX_BYTES must be at least 1024, got %d", p.MaxBytes)
	case p.Width < 1 || p.Height < 1:
		return fmt.Errorf("POSTER_WIDTH and POSTER_HEIGHT must be positive")
	case p.PrefetchWorkers < 1:
		return fmt.Errorf("POSTER_PREFETCH_WORKERS must be at least 1, got %d", p.PrefetchWorkers)
	case p.GCInterval < time.Minute:
		return fmt.Errorf("POSTER_GC_INTERVAL must be at least 1m, got %v", p.GCInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must contain at least one origin")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
