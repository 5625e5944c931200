// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Timestamp enables timestamps in log output.
	// Default: true
	Timestamp bool

	// Output is the writer for terminal output.
	// Default: os.Stderr
	Output io.Writer

	// File enables a rotating JSON log file at this path.
	// Empty disables file logging.
	File string

	// MaxSizeMB, MaxBackups and MaxAgeDays control file rotation.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// BufferSize is the number of recent entries kept in memory for /api/logs.
	// Default: 1000. Negative disables the buffer.
	BufferSize int
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		Caller:     false,
		Timestamp:  true,
		Output:     os.Stderr,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		BufferSize: 1000,
	}
}

var (
	// log is the global logger instance.
	log zerolog.Logger

	// recent receives a copy of every JSON log line.
	recent *Buffer

	// fileWriter is the rotating file sink, nil when file logging is off.
	fileWriter *lumberjack.Logger
	filePath   string

	// mu protects the globals above.
	mu sync.RWMutex
)

//nolint:gochecknoinits // init ensures logging works before explicit Init() call
func init() {
	initLogger(DefaultConfig())
}

// Init initializes the global logger with the given configuration.
// It is safe to call multiple times; subsequent calls reconfigure the logger
// and close any previously opened log file.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger configures the global logger (must be called with mu held).
func initLogger(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 1000
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.ErrorFieldName = "error"
	zerolog.CallerFieldName = "caller"

	var terminal io.Writer = cfg.Output
	if cfg.Format == "console" {
		terminal = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}
	writers := []io.Writer{terminal}

	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
	filePath = strings.TrimSpace(cfg.File)
	if filePath != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, fileWriter)
	}

	if cfg.BufferSize > 0 {
		if recent == nil || recent.Capacity() != cfg.BufferSize {
			recent = NewBuffer(cfg.BufferSize)
		}
		writers = append(writers, recent)
	} else {
		recent = nil
	}

	var out io.Writer = writers[0]
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	l := zerolog.New(out)
	if cfg.Timestamp {
		l = l.With().Timestamp().Logger()
	}
	if cfg.Caller {
		l = l.With().Caller().Logger()
	}
	log = l
}

// parseLevel converts a string level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func With() zerolog.Context {
	l := Logger()
	return l.With()
}

// The level helpers start an event on the global logger:
//
//	logging.Info().Str("addr", addr).Msg("server listening")
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// Fatal exits the process with status 1 once the message is written.
func Fatal() *zerolog.Event {
	l := Logger()
	return l.Fatal()
}

// SetLevelString applies a LOG_LEVEL value at runtime. Unknown values
// fall back to info.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

// RecentBuffer returns the in-memory buffer of recent entries,
// or nil when buffering is disabled.
func RecentBuffer() *Buffer {
	mu.RLock()
	defer mu.RUnlock()
	return recent
}

// LogFilePath returns the path of the rotating log file, or "" if file logging is off.
func LogFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return filePath
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}

// NewTestLogger creates a logger that writes to the provided writer.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
