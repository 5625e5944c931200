// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package config loads Plexboard configuration with koanf.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults (defaultConfig)
//  2. a YAML file from CONFIG_PATH, ./config.yaml or /etc/plexboard/config.yaml
//  3. environment variables, mapped explicitly in envMappings
//
// The environment names of the original Node server are kept: PLEX_URL,
// TAUTULLI_URL and VITE_API_BASE_URL. Example:
//
//	TAUTULLI_URL=http://tautulli:8181
//	TAUTULLI_API_KEY=abc123
//	TMDB_API_KEY=def456
//	VITE_API_BASE_URL=https://dash.example.com
//	DATA_DIR=/data
//
// Tautulli, Plex and TMDB are each optional. Endpoints that need Tautulli
// answer 503 when it is not configured, and the poster cache skips any
// artwork source that is missing.
package config
