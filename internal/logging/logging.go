// Package logging builds the application's zerolog logger.
//
// The picker owns the terminal while it runs, so logs never go to stdout or
// stderr by default; they are appended to a file under the user cache
// directory instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the log line encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatPretty writes human-readable lines without colour.
	FormatPretty Format = "pretty"
)

// Config configures a logger.
type Config struct {
	// Level is one of debug, info, warn, error, disabled.
	Level string
	// Format is json or pretty.
	Format Format
	// File is the log file path. Empty disables logging.
	File string
}

// ParseLevel parses a level name. Unknown names are an error.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q (must be debug, info, warn, error or disabled)", s)
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPretty:
		return FormatPretty, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatPretty, fmt.Errorf("invalid log format %q (must be json or pretty)", s)
	}
}

// DefaultFile returns the default log file location.
func DefaultFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "snipvault", "snipvault.log")
}

// New returns a logger for cfg and a function that closes the log file.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	format, err := ParseFormat(string(cfg.Format))
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	if cfg.File == "" || level == zerolog.Disabled {
		return zerolog.Nop(), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("opening log file: %w", err)
	}

	return NewWriter(f, level, format), f.Close, nil
}

// NewWriter returns a logger writing to w.
func NewWriter(w io.Writer, level zerolog.Level, format Format) zerolog.Logger {
	out := w
	if format == FormatPretty {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func noop() error { return nil }
