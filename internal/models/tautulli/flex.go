// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

import (
	"bytes"
	"fmt"
	"strconv"
)

// FlexInt decodes a JSON number, a numeric string, an empty string or null.
// Fractional values are truncated.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		if len(b) < 2 || b[len(b)-1] != '"' {
			return fmt.Errorf("flexint: malformed string %s", b)
		}
		b = bytes.TrimSpace(b[1 : len(b)-1])
		if len(b) == 0 {
			*f = 0
			return nil
		}
	}
	s := string(b)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flexint: %q is not a number", s)
	}
	*f = FlexInt(int64(v))
	return nil
}

// Int returns the value as an int.
func (f FlexInt) Int() int { return int(f) }

// String formats the value, with zero rendered as "".
func (f FlexInt) String() string {
	if f == 0 {
		return ""
	}
	return strconv.FormatInt(int64(f), 10)
}
