package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snipvault/internal/config"
	"github.com/dshills/snipvault/internal/input"
	"github.com/dshills/snipvault/internal/picker"
	"github.com/dshills/snipvault/internal/session"
	"github.com/dshills/snipvault/internal/snippet"
	"github.com/dshills/snipvault/internal/snippet/loader"
)

const greetYAML = `greet:
  body: echo hello
  language: bash
greet2:
  body: echo hi
  tags: [salutation]
docker-ps:
  body: docker ps -a
  language: bash
sql-count:
  body: SELECT count(*) FROM t;
  language: sql
`

type fakeScreen struct {
	*input.Script
	frames []session.Frame
	rows   int
	inits  int
	closes int
}

func (f *fakeScreen) Render(fr session.Frame) { f.frames = append(f.frames, fr) }
func (f *fakeScreen) Init() error             { f.inits++; return nil }
func (f *fakeScreen) Close()                  { f.closes++ }
func (f *fakeScreen) Rows() int               { return f.rows }

type fakeClipboard struct {
	writes []string
	err    error
}

func (c *fakeClipboard) Set(text string) error {
	c.writes = append(c.writes, text)
	return c.err
}

func testConfig(t *testing.T, content string) config.Config {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := config.Default()
	cfg.Snippets.Path = filepath.Join(t.TempDir(), "snippets.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(cfg.Snippets.Path, []byte(content), 0o644))
	}
	return cfg
}

func newTestApp(cfg config.Config, screen *fakeScreen, cb picker.Clipboard) *App {
	return New(cfg,
		WithScreen(func() (Screen, error) { return screen, nil }),
		WithClipboard(cb),
	)
}

func TestPickConfirmCopiesBody(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	events := append(input.Text("greet"), input.Key(input.KindConfirm))
	screen := &fakeScreen{Script: input.NewScript(events...), rows: 10}
	cb := &fakeClipboard{}

	out, err := newTestApp(cfg, screen, cb).Pick(context.Background(), PickOptions{})
	require.NoError(t, err)

	assert.Equal(t, ExitOK, ExitCode(err))
	assert.Equal(t, picker.StatusConfirmed, out.Status)
	assert.Equal(t, "greet", out.Snippet.Name)
	assert.Equal(t, []string{"echo hello"}, cb.writes)
	assert.Len(t, screen.frames, len(events)+1)
	assert.Equal(t, 1, screen.inits)
	assert.GreaterOrEqual(t, screen.closes, 1)
}

func TestPickCancel(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	screen := &fakeScreen{Script: input.NewScript(input.Key(input.KindCancel)), rows: 10}
	cb := &fakeClipboard{}

	out, err := newTestApp(cfg, screen, cb).Pick(context.Background(), PickOptions{})
	require.NoError(t, err)
	assert.Equal(t, picker.StatusCancelled, out.Status)
	assert.Empty(t, cb.writes)
	assert.Equal(t, ExitOK, ExitCode(err))
}

func TestPickInitialQueryAndLanguage(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	cfg.Snippets.Language = "bash"
	screen := &fakeScreen{Script: input.NewScript(input.Key(input.KindConfirm)), rows: 10}
	cb := &fakeClipboard{}

	out, err := newTestApp(cfg, screen, cb).Pick(context.Background(), PickOptions{Query: "ps"})
	require.NoError(t, err)
	assert.Equal(t, "docker-ps", out.Snippet.Name)
	assert.Equal(t, "ps", screen.frames[0].Query)
	assert.Equal(t, 1, screen.frames[0].Total)
}

func TestPickPrintWritesStdout(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	events := append(input.Text("greet2"), input.Key(input.KindConfirm))
	screen := &fakeScreen{Script: input.NewScript(events...), rows: 10}
	cb := &fakeClipboard{}
	var stdout bytes.Buffer

	_, err := newTestApp(cfg, screen, cb).Pick(context.Background(), PickOptions{Print: true, Stdout: &stdout})
	require.NoError(t, err)
	assert.Equal(t, "echo hi", stdout.String())
	assert.Empty(t, cb.writes, "system clipboard untouched")
}

func TestPickClipboardFailure(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	events := append(input.Text("greet"), input.Key(input.KindConfirm))
	screen := &fakeScreen{Script: input.NewScript(events...), rows: 10}
	cb := &fakeClipboard{err: errors.New("no display")}

	out, err := newTestApp(cfg, screen, cb).Pick(context.Background(), PickOptions{})
	require.Error(t, err)
	assert.Equal(t, ExitClipboard, ExitCode(err))
	assert.Equal(t, "greet", out.Snippet.Name)
}

func TestPickLoadFailure(t *testing.T) {
	cfg := testConfig(t, "greet: [unclosed")
	screen := &fakeScreen{Script: input.NewScript(), rows: 10}

	_, err := newTestApp(cfg, screen, &fakeClipboard{}).Pick(context.Background(), PickOptions{})
	require.Error(t, err)
	assert.Equal(t, ExitLoad, ExitCode(err))
	assert.Zero(t, screen.inits, "terminal not touched on load failure")
}

func TestPickDuplicateRejected(t *testing.T) {
	cfg := testConfig(t, "- name: a\n  body: one\n- name: a\n  body: two\n")
	screen := &fakeScreen{Script: input.NewScript(), rows: 10}

	_, err := newTestApp(cfg, screen, &fakeClipboard{}).Pick(context.Background(), PickOptions{})
	require.Error(t, err)
	assert.Equal(t, ExitLoad, ExitCode(err))

	var dup *snippet.DuplicateNameError
	assert.ErrorAs(t, err, &dup)
}

func TestPickInterrupted(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	screen := &fakeScreen{Script: input.NewScript(input.Character('g')), rows: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestApp(cfg, screen, &fakeClipboard{}).Pick(ctx, PickOptions{})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestPickFixedPageSize(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	cfg.UI.PageSize = 2
	screen := &fakeScreen{Script: input.NewScript(input.Resize(30), input.Key(input.KindCancel)), rows: 20}

	_, err := newTestApp(cfg, screen, &fakeClipboard{}).Pick(context.Background(), PickOptions{})
	require.NoError(t, err)
	for _, f := range screen.frames {
		assert.LessOrEqual(t, len(f.Visible), 2)
	}
}

func TestLoadStoreSeedsDefaults(t *testing.T) {
	cfg := testConfig(t, "")

	store, err := New(cfg).LoadStore()
	require.NoError(t, err)
	assert.Equal(t, len(loader.Defaults()), store.Len())
	assert.FileExists(t, cfg.Snippets.Path)
}

func TestLoadStoreSeedsJSON(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Snippets.Path = filepath.Join(t.TempDir(), "snippets.json")

	store, err := New(cfg).LoadStore()
	require.NoError(t, err)
	assert.Equal(t, len(loader.Defaults()), store.Len())
	assert.FileExists(t, cfg.Snippets.Path)

	again, err := New(cfg).LoadStore()
	require.NoError(t, err)
	assert.Equal(t, store.Len(), again.Len())
}

func TestLoadStoreDoesNotSeedTOML(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Snippets.Path = filepath.Join(t.TempDir(), "snippets.toml")

	_, err := New(cfg).LoadStore()
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ExitLoad, ExitCode(err))
	assert.NoFileExists(t, cfg.Snippets.Path)
}

func TestLoadStoreWithoutSeeding(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Snippets.SeedDefaults = false

	_, err := New(cfg).LoadStore()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ExitLoad, ExitCode(err))
}

func TestList(t *testing.T) {
	cfg := testConfig(t, greetYAML)

	results, err := New(cfg).List("gree")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "greet", results[0].Snippet.Name)
	assert.Equal(t, "greet2", results[1].Snippet.Name)

	none, err := New(cfg).List("zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestShow(t *testing.T) {
	cfg := testConfig(t, greetYAML)

	sn, err := New(cfg).Show("sql-count")
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM t;", sn.Body)

	_, err = New(cfg).Show("missing")
	assert.ErrorIs(t, err, snippet.ErrNotFound)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestShowIgnoresLanguageFilter(t *testing.T) {
	cfg := testConfig(t, greetYAML)
	cfg.Snippets.Language = "sql"

	sn, err := New(cfg).Show("greet")
	require.NoError(t, err)
	assert.Equal(t, "echo hello", sn.Body)

	store, err := New(cfg).LoadStore()
	require.NoError(t, err)
	_, err = store.Get("greet")
	assert.ErrorIs(t, err, snippet.ErrNotFound, "picker and list stay filtered")
}

func TestLanguages(t *testing.T) {
	cfg := testConfig(t, greetYAML)

	langs, err := New(cfg).Languages()
	require.NoError(t, err)
	assert.Equal(t, []LanguageCount{
		{Language: "bash", Count: 2},
		{Language: "sql", Count: 1},
		{Count: 1},
	}, langs)
}

func TestInit(t *testing.T) {
	cfg := testConfig(t, "")
	configPath := filepath.Join(t.TempDir(), "conf", "config.toml")

	res, err := New(cfg).Init(configPath)
	require.NoError(t, err)
	assert.True(t, res.SnippetsWrote)
	assert.True(t, res.ConfigWrote)

	back, err := config.ReadFile(config.Default(), configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Snippets.Path, back.Snippets.Path)

	again, err := New(cfg).Init(configPath)
	require.NoError(t, err)
	assert.False(t, again.SnippetsWrote)
	assert.False(t, again.ConfigWrote)
}

func TestInitJSON(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Snippets.Path = filepath.Join(t.TempDir(), "snippets.json")

	res, err := New(cfg).Init("")
	require.NoError(t, err)
	assert.True(t, res.SnippetsWrote)

	entries, err := loader.NewFileLoader(cfg.Snippets.Path).Load()
	require.NoError(t, err)
	assert.Len(t, entries, res.SnippetEntries)
}
