// Package app wires configuration, the snippet store, the match engine and
// the picker into the operations the command line exposes.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dshills/snipvault/internal/clipboard"
	"github.com/dshills/snipvault/internal/config"
	"github.com/dshills/snipvault/internal/input"
	"github.com/dshills/snipvault/internal/match"
	"github.com/dshills/snipvault/internal/picker"
	"github.com/dshills/snipvault/internal/snippet"
	"github.com/dshills/snipvault/internal/snippet/loader"
	"github.com/dshills/snipvault/internal/terminal"
)

// Screen is the interactive surface the picker runs on.
type Screen interface {
	input.Source
	picker.Renderer

	Init() error
	Close()
	// Rows reports how many result rows fit the screen.
	Rows() int
}

// App holds the resolved configuration and the collaborators used by each
// operation.
type App struct {
	cfg       config.Config
	logger    zerolog.Logger
	newScreen func() (Screen, error)
	clipboard picker.Clipboard
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithScreen replaces the terminal factory.
func WithScreen(f func() (Screen, error)) Option {
	return func(a *App) {
		a.newScreen = f
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(cb picker.Clipboard) Option {
	return func(a *App) {
		a.clipboard = cb
	}
}

// New creates an App for cfg. cfg is expected to be validated.
func New(cfg config.Config, opts ...Option) *App {
	a := &App{
		cfg:       cfg,
		logger:    zerolog.Nop(),
		newScreen: newTerminal,
		clipboard: clipboard.System{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func newTerminal() (Screen, error) {
	t, err := terminal.New()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	return t, nil
}

// Config returns the configuration the App was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// LoadStore reads the snippet file and builds the store, restricted to the
// configured language. A missing YAML or JSON file is first seeded with the
// starter set when SeedDefaults is on.
func (a *App) LoadStore() (*snippet.Store, error) {
	store, policy, err := a.loadAll()
	if err != nil {
		return nil, err
	}

	all := store.Len()
	store = store.FilterLanguage(a.cfg.Snippets.Language)
	a.logger.Info().
		Str("component", "store").
		Str("path", a.cfg.Snippets.Path).
		Int("snippets", all).
		Int("selected", store.Len()).
		Str("policy", policy.String()).
		Str("language", a.cfg.Snippets.Language).
		Msg("snippets loaded")
	return store, nil
}

// loadAll builds the store from every entry in the snippet file.
func (a *App) loadAll() (*snippet.Store, snippet.DuplicatePolicy, error) {
	path := a.cfg.Snippets.Path

	if a.cfg.Snippets.SeedDefaults {
		seeded, err := seedDefaults(path)
		if err != nil {
			return nil, 0, NewOperationError("seed", path, err)
		}
		if seeded {
			a.logger.Info().
				Str("component", "store").
				Str("path", path).
				Int("snippets", len(loader.Defaults())).
				Msg("wrote starter snippets")
		}
	}

	policy, err := a.cfg.Policy()
	if err != nil {
		return nil, 0, NewOperationError("load", path, snippet.WithSource(err, path))
	}

	entries, err := loader.NewFileLoader(path).Load()
	if err != nil {
		return nil, 0, NewOperationError("load", path, err)
	}

	store, err := snippet.Load(entries, policy)
	if err != nil {
		return nil, 0, NewOperationError("load", path, snippet.WithSource(err, path))
	}
	return store, policy, nil
}

// seedDefaults writes the starter set to path when it does not exist yet.
// Paths WriteDefaults cannot encode are left alone.
func seedDefaults(path string) (bool, error) {
	if !loader.CanWrite(path) {
		return false, nil
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := loader.WriteDefaults(path); err != nil {
		if errors.Is(err, loader.ErrFileExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Engine builds a match engine over store using the search settings.
func (a *App) Engine(store *snippet.Store) *match.Engine {
	opts := match.DefaultOptions()
	opts.SearchBody = a.cfg.Search.Body
	opts.CacheSize = a.cfg.Search.CacheSize
	return match.NewEngine(store, opts)
}

// List returns the ranked snippets for query, as the picker would show
// them.
func (a *App) List(query string) ([]match.Result, error) {
	store, err := a.LoadStore()
	if err != nil {
		return nil, err
	}
	return a.Engine(store).Match(query), nil
}

// Show returns the snippet called name. The language filter does not apply;
// a name is looked up across the whole file.
func (a *App) Show(name string) (snippet.Snippet, error) {
	store, _, err := a.loadAll()
	if err != nil {
		return snippet.Snippet{}, err
	}
	sn, err := store.Get(name)
	if err != nil {
		return snippet.Snippet{}, NewOperationError("show", name, err)
	}
	return sn, nil
}

// LanguageCount is one row of the language listing.
type LanguageCount struct {
	Language string
	Count    int
}

// Languages lists each language with its snippet count, sorted by name.
// Snippets without a language are reported under the empty language when
// there are any.
func (a *App) Languages() ([]LanguageCount, error) {
	store, err := a.LoadStore()
	if err != nil {
		return nil, err
	}

	counts := store.CountByLanguage()
	out := make([]LanguageCount, 0, len(counts)+1)
	tagged := 0
	for _, lang := range store.Languages() {
		out = append(out, LanguageCount{Language: lang, Count: counts[lang]})
		tagged += counts[lang]
	}
	if rest := store.Len() - tagged; rest > 0 {
		out = append(out, LanguageCount{Count: rest})
	}
	return out, nil
}

// InitResult reports which files Init created.
type InitResult struct {
	SnippetsPath   string
	SnippetsWrote  bool
	ConfigPath     string
	ConfigWrote    bool
	SnippetEntries int
}

// Init writes the starter snippet file and a config file holding the
// current settings. Existing files are left alone.
func (a *App) Init(configPath string) (InitResult, error) {
	res := InitResult{
		SnippetsPath:   a.cfg.Snippets.Path,
		ConfigPath:     configPath,
		SnippetEntries: len(loader.Defaults()),
	}

	err := loader.WriteDefaults(res.SnippetsPath)
	switch {
	case err == nil:
		res.SnippetsWrote = true
	case errors.Is(err, loader.ErrFileExists):
		// Keep the user's snippets.
	default:
		return res, NewOperationError("init", res.SnippetsPath, err)
	}

	if configPath != "" {
		wrote, err := writeConfig(configPath, a.cfg)
		if err != nil {
			return res, NewOperationError("init", configPath, err)
		}
		res.ConfigWrote = wrote
	}

	a.logger.Info().
		Str("snippets", res.SnippetsPath).
		Bool("snippets_written", res.SnippetsWrote).
		Str("config", res.ConfigPath).
		Bool("config_written", res.ConfigWrote).
		Msg("initialised")
	return res, nil
}

func writeConfig(path string, cfg config.Config) (bool, error) {
	data, err := config.Encode(cfg)
	if err != nil {
		return false, fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("writing config file: %w", err)
	}
	return true, f.Close()
}
