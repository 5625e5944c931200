// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{"debug", slog.LevelDebug, "debug"},
		{"info", slog.LevelInfo, "info"},
		{"warn", slog.LevelWarn, "warn"},
		{"error", slog.LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandler(zerolog.New(&buf)))
			logger.Log(context.Background(), tt.level, "msg")

			if !strings.Contains(buf.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s in output: %s", tt.wantLevel, buf.String())
			}
		})
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := slog.New(NewSlogHandler(zerolog.New(&buf))).
		With("service", "http-server").
		WithGroup("supervisor")

	logger.Info("restart",
		"attempt", 3,
		"backoff", 2*time.Second,
		"ok", false,
		"err", errors.New("boom"),
		slog.Group("detail", "reason", "panic"),
	)

	out := buf.String()
	for _, want := range []string{
		`"supervisor.service":"http-server"`,
		`"supervisor.attempt":3`,
		`"supervisor.ok":false`,
		`"supervisor.err":"boom"`,
		`"supervisor.detail.reason":"panic"`,
		`"message":"restart"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn logger")
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	NewSlogLogger("supervisor").Info("tree started")

	if !strings.Contains(buf.String(), `"component":"supervisor"`) {
		t.Errorf("expected component in output: %s", buf.String())
	}
}
