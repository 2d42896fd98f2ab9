// Package config resolves snipvault's settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults
//  2. the TOML config file
//  3. a .env file next to it (never overrides variables already set)
//  4. SNIPVAULT_* environment variables
//  5. command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snipvault/internal/logging"
	"github.com/dshills/snipvault/internal/snippet"
	"github.com/dshills/snipvault/internal/snippet/loader"
)

// AppName names the config and cache subdirectories.
const AppName = "snipvault"

// Config is the fully resolved configuration.
type Config struct {
	Snippets SnippetsConfig `toml:"snippets"`
	Search   SearchConfig   `toml:"search"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// SnippetsConfig locates and loads the snippet file.
type SnippetsConfig struct {
	// Path is the snippet file. The extension selects the format.
	Path string `toml:"path"`
	// OnDuplicate is "reject" or "overwrite".
	OnDuplicate string `toml:"on_duplicate"`
	// SeedDefaults writes the starter set when Path does not exist.
	SeedDefaults bool `toml:"seed_defaults"`
	// Language restricts the session to one language. Empty means all.
	Language string `toml:"language"`
}

// SearchConfig tunes the match engine.
type SearchConfig struct {
	Body      bool `toml:"body"`
	CacheSize int  `toml:"cache_size"`
}

// UIConfig tunes the picker.
type UIConfig struct {
	// PageSize is the number of visible rows. 0 fits the terminal.
	PageSize int `toml:"page_size"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Snippets: SnippetsConfig{
			Path:         filepath.Join(Dir(), "snippets.yaml"),
			OnDuplicate:  snippet.Reject.String(),
			SeedDefaults: true,
		},
		Search: SearchConfig{
			Body:      true,
			CacheSize: 256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatPretty),
			File:   logging.DefaultFile(),
		},
	}
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(".", "."+AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Policy returns the parsed duplicate policy.
func (c Config) Policy() (snippet.DuplicatePolicy, error) {
	return snippet.ParsePolicy(c.Snippets.OnDuplicate)
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: logging.Format(c.Log.Format),
		File:   c.Log.File,
	}
}

// Validate reports every invalid setting, joined.
func (c Config) Validate() error {
	var errs []error

	if c.Snippets.Path == "" {
		errs = append(errs, &ValidationError{Field: "snippets.path", Message: "must not be empty"})
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, &ValidationError{Field: "snippets.on_duplicate", Message: err.Error()})
	}
	if c.Search.CacheSize < 0 {
		errs = append(errs, &ValidationError{Field: "search.cache_size", Message: fmt.Sprintf("must not be negative, got %d", c.Search.CacheSize)})
	}
	if c.UI.PageSize < 0 {
		errs = append(errs, &ValidationError{Field: "ui.page_size", Message: fmt.Sprintf("must not be negative, got %d", c.UI.PageSize)})
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Field: "log.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, &ValidationError{Field: "log.format", Message: err.Error()})
	}

	return errors.Join(errs...)
}

// ReadFile layers the TOML file at path over cfg. Keys absent from the file
// keep their current values.
func ReadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(cfg, path, data)
}

// Parse layers TOML data over cfg. source names the data in errors.
func Parse(cfg Config, source string, data []byte) (Config, error) {
	if err := toml.Unmarshal(data, &cfg); err != nil {
		pe := &loader.ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return cfg, pe
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
