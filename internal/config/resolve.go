package config

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// Overrides holds flag values. Nil fields were not given on the command
// line.
type Overrides struct {
	File        *string
	OnDuplicate *string
	Language    *string
	SearchBody  *bool
	PageSize    *int
	LogLevel    *string
}

// Apply layers the set overrides over cfg.
func (o Overrides) Apply(cfg Config) Config {
	if o.File != nil {
		cfg.Snippets.Path = *o.File
	}
	if o.OnDuplicate != nil {
		cfg.Snippets.OnDuplicate = *o.OnDuplicate
	}
	if o.Language != nil {
		cfg.Snippets.Language = *o.Language
	}
	if o.SearchBody != nil {
		cfg.Search.Body = *o.SearchBody
	}
	if o.PageSize != nil {
		cfg.UI.PageSize = *o.PageSize
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
	return cfg
}

// Options selects where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set, unless
	// AllowMissing is true. When empty DefaultPath is used and may be absent.
	Path         string
	AllowMissing bool
	// DotEnv is the .env file. Empty means ".env" in the config file's
	// directory.
	DotEnv string
	// Overrides are applied last.
	Overrides Overrides
}

// Load resolves the configuration through every layer and validates it.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	next, err := ReadFile(cfg, path)
	switch {
	case err == nil:
		cfg = next
	case (!explicit || opts.AllowMissing) && errors.Is(err, fs.ErrNotExist):
		// No config file; defaults stand.
	default:
		return cfg, err
	}

	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := LoadDotEnv(dotenv); err != nil {
		return cfg, err
	}

	if cfg, err = ApplyEnv(cfg); err != nil {
		return cfg, err
	}

	cfg = opts.Overrides.Apply(cfg)
	return cfg, cfg.Validate()
}
