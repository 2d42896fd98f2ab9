package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable snipvault reads.
const EnvPrefix = "SNIPVAULT"

// envConfig mirrors the settings that can come from the environment.
// Fields carry no defaults: an unset variable leaves the current value.
type envConfig struct {
	// Env: SNIPVAULT_FILE
	File string `envconfig:"FILE"`
	// Env: SNIPVAULT_ON_DUPLICATE
	OnDuplicate string `envconfig:"ON_DUPLICATE"`
	// Env: SNIPVAULT_SEED_DEFAULTS
	SeedDefaults bool `envconfig:"SEED_DEFAULTS"`
	// Env: SNIPVAULT_LANGUAGE
	Language string `envconfig:"LANGUAGE"`
	// Env: SNIPVAULT_SEARCH_BODY
	SearchBody bool `envconfig:"SEARCH_BODY"`
	// Env: SNIPVAULT_CACHE_SIZE
	CacheSize int `envconfig:"CACHE_SIZE"`
	// Env: SNIPVAULT_PAGE_SIZE
	PageSize int `envconfig:"PAGE_SIZE"`
	// Env: SNIPVAULT_LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`
	// Env: SNIPVAULT_LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`
	// Env: SNIPVAULT_LOG_FILE
	LogFile string `envconfig:"LOG_FILE"`
}

// ApplyEnv layers SNIPVAULT_* variables over cfg.
func ApplyEnv(cfg Config) (Config, error) {
	env := envConfig{
		File:         cfg.Snippets.Path,
		OnDuplicate:  cfg.Snippets.OnDuplicate,
		SeedDefaults: cfg.Snippets.SeedDefaults,
		Language:     cfg.Snippets.Language,
		SearchBody:   cfg.Search.Body,
		CacheSize:    cfg.Search.CacheSize,
		PageSize:     cfg.UI.PageSize,
		LogLevel:     cfg.Log.Level,
		LogFormat:    cfg.Log.Format,
		LogFile:      cfg.Log.File,
	}
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	cfg.Snippets.Path = env.File
	cfg.Snippets.OnDuplicate = env.OnDuplicate
	cfg.Snippets.SeedDefaults = env.SeedDefaults
	cfg.Snippets.Language = env.Language
	cfg.Search.Body = env.SearchBody
	cfg.Search.CacheSize = env.CacheSize
	cfg.UI.PageSize = env.PageSize
	cfg.Log.Level = env.LogLevel
	cfg.Log.Format = env.LogFormat
	cfg.Log.File = env.LogFile
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables that are already set are kept. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
