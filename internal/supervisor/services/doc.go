// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package services adapts server components to suture.Service.
//
// Every wrapper implements Serve(ctx) error and String() so the supervisor
// logs it by name. Wrappers take small interfaces rather than concrete
// types, which keeps this package free of imports from the components it
// runs.
package services
