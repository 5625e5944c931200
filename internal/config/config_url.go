// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package config

import (
	"fmt"
	"net/url"
)

// checkBaseURL validates an upstream or public base URL. A path prefix is
// allowed for services behind a reverse proxy; query strings, fragments and
// embedded credentials are not, since keys and tokens are configured
// separately and appended per request.
func checkBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%s scheme must be http or https, got %q", field, u.Scheme)
	case u.Host == "":
		return fmt.Errorf("%s host is required", field)
	case u.User != nil:
		return fmt.Errorf("%s must not embed credentials", field)
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("%s must not contain a query or fragment", field)
	}
	return nil
}
