package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snipvault/internal/snippet"
)

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":       FormatYAML,
		"dir/b.YML":    FormatYAML,
		"c.json":       FormatJSON,
		"d.toml":       FormatTOML,
		"e.txt":        FormatUnknown,
		"no-extension": FormatUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFor(path), path)
	}
}

func TestYAMLMapping(t *testing.T) {
	src := `
greet: echo hello
greet2:
  body: echo hi
  tags: [salutation]
  language: bash
multi:
  body: |
    line one
    line two
`
	entries, err := Parse(FormatYAML, "test.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, snippet.Entry{Name: "greet", Body: "echo hello"}, entries[0])
	assert.Equal(t, snippet.Entry{
		Name: "greet2", Body: "echo hi", Tags: []string{"salutation"}, Language: "bash",
	}, entries[1])
	assert.Equal(t, "line one\nline two\n", entries[2].Body)
}

func TestYAMLSequence(t *testing.T) {
	src := `
- name: x
  body: first
- title: x
  code: second
`
	entries, err := Parse(FormatYAML, "test.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].Name)
	assert.Equal(t, "x", entries[1].Name)
	assert.Equal(t, "second", entries[1].Body)
}

func TestYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "a: [unclosed"},
		{"scalar root", "just text"},
		{"list value", "a:\n  - 1\n  - 2\n"},
		{"non-mapping item", "- 1\n- 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(FormatYAML, "bad.yaml", []byte(tt.src))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "bad.yaml", pe.Path)
		})
	}
}

func TestYAMLEmpty(t *testing.T) {
	entries, err := Parse(FormatYAML, "empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJSONObjectKeepsOrderAndRepeats(t *testing.T) {
	src := `{"b": "two", "a": {"body": "one", "tags": ["t1", "t2"]}, "b": "again"}`
	entries, err := Parse(FormatJSON, "s.json", []byte(src))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, "a", entries[1].Name)
	assert.Equal(t, []string{"t1", "t2"}, entries[1].Tags)
	assert.Equal(t, "again", entries[2].Body)

	_, err = snippet.Load(entries, snippet.Reject)
	var de *snippet.DuplicateNameError
	assert.ErrorAs(t, err, &de)
}

func TestJSONLegacyArray(t *testing.T) {
	src := `[
  {"id": 1, "title": "Extract tar.gz", "language": "bash", "code": "tar -xzvf archive.tar.gz", "tags": ["linux", "archive"]},
  {"id": 2, "name": "listing", "body": "ls -la", "tags": "fs, quick"}
]`
	entries, err := Parse(FormatJSON, "s.json", []byte(src))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, snippet.Entry{
		Name: "Extract tar.gz", Body: "tar -xzvf archive.tar.gz",
		Tags: []string{"linux", "archive"}, Language: "bash",
	}, entries[0])
	assert.Equal(t, []string{"fs", " quick"}, entries[1].Tags)
}

func TestJSONErrors(t *testing.T) {
	for _, src := range []string{`{"a": `, `42`, `{"a": 1}`, `[1]`} {
		_, err := Parse(FormatJSON, "bad.json", []byte(src))
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, src)
	}
}

func TestTOML(t *testing.T) {
	src := `
[[snippet]]
name = "greet"
body = "echo hello"

[[snippet]]
name = "greet2"
body = "echo hi"
tags = ["salutation"]
`
	entries, err := Parse(FormatTOML, "s.toml", []byte(src))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "greet", entries[0].Name)
	assert.Equal(t, []string{"salutation"}, entries[1].Tags)
}

func TestTOMLError(t *testing.T) {
	_, err := Parse(FormatTOML, "bad.toml", []byte("[[snippet]\nname ="))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Positive(t, pe.Line)
}

func TestFileLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"snips/main.yaml":   {Data: []byte("a: one\nb: two\n")},
		"snips/broken.json": {Data: []byte("{")},
		"snips/notes.txt":   {Data: []byte("a")},
	}

	entries, err := NewFileLoaderWithFS(fsys, "snips/main.yaml").Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = NewFileLoaderWithFS(fsys, "snips/broken.json").Load()
	var le *snippet.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "snips/broken.json", le.Source)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = NewFileLoaderWithFS(fsys, "snips/notes.txt").Load()
	require.ErrorAs(t, err, &le)

	_, err = NewFileLoaderWithFS(fsys, "snips/missing.yaml").Load()
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReaderAndStaticLoaders(t *testing.T) {
	entries, err := NewReaderLoader(strings.NewReader(`{"a": "b"}`), FormatJSON).Load()
	require.NoError(t, err)
	assert.Equal(t, []snippet.Entry{{Name: "a", Body: "b"}}, entries)

	_, err = NewReaderLoader(strings.NewReader(`{`), FormatJSON).Load()
	var le *snippet.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "<reader>", le.Source)

	static := StaticLoader{{Name: "x"}}
	got, err := static.Load()
	require.NoError(t, err)
	got[0].Name = "changed"
	assert.Equal(t, "x", static[0].Name)
}

func TestWriteDefaultsLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snippets.yaml")
	require.NoError(t, WriteDefaults(path))

	entries, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), entries)

	err = WriteDefaults(path)
	assert.True(t, errors.Is(err, ErrFileExists))

	_, err = os.Stat(path)
	require.NoError(t, err)

	err = WriteDefaults(filepath.Join(t.TempDir(), "snippets.toml"))
	assert.ErrorIs(t, err, ErrNoEncoder)
}

func TestWriteDefaultsJSONLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.json")
	require.NoError(t, WriteDefaults(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Extract tar.gz"`)
	assert.Contains(t, string(data), `"code":`)

	entries, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), entries)

	assert.ErrorIs(t, WriteDefaults(path), ErrFileExists)
}

func TestEncodeJSONKeepsOrder(t *testing.T) {
	in := []snippet.Entry{
		{Name: "zeta", Body: "say \"z\"\n\tdone"},
		{Name: "alpha", Body: "a", Tags: []string{"x", "y"}, Language: "sql"},
	}
	data, err := EncodeJSON(in)
	require.NoError(t, err)

	out, err := Parse(FormatJSON, "enc.json", data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Less(t, strings.Index(string(data), "zeta"), strings.Index(string(data), "alpha"))
}

func TestYAMLEdgeShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []snippet.Entry
	}{
		{
			name: "null bodies",
			src:  "a: ~\nb: null\nc:\n",
			want: []snippet.Entry{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
		{
			name: "null body in record",
			src:  "a:\n  body: ~\n  language: bash\n",
			want: []snippet.Entry{{Name: "a", Language: "bash"}},
		},
		{
			name: "alias value",
			src:  "base: &b echo hi\nalias: *b\n",
			want: []snippet.Entry{{Name: "base", Body: "echo hi"}, {Name: "alias", Body: "echo hi"}},
		},
		{
			name: "alias record",
			src:  "base: &b {body: x, tags: [t]}\ncopy: *b\n",
			want: []snippet.Entry{
				{Name: "base", Body: "x", Tags: []string{"t"}},
				{Name: "copy", Body: "x", Tags: []string{"t"}},
			},
		},
		{
			name: "scalar tags",
			src:  "a:\n  tags: git, undo\n  body: x\n",
			want: []snippet.Entry{{Name: "a", Body: "x", Tags: []string{"git", " undo"}}},
		},
		{
			name: "single scalar tag",
			src:  "- name: a\n  tags: git\n  body: x\n",
			want: []snippet.Entry{{Name: "a", Body: "x", Tags: []string{"git"}}},
		},
		{
			name: "empty trailing document",
			src:  "a: x\n---\n",
			want: []snippet.Entry{{Name: "a", Body: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(FormatYAML, "edge.yaml", []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYAMLSecondDocumentIsAnError(t *testing.T) {
	_, err := Parse(FormatYAML, "multi.yaml", []byte("a: x\n---\nb: y\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, pe.Error(), "multi.yaml:3:")
}

func TestYAMLBadTags(t *testing.T) {
	_, err := Parse(FormatYAML, "bad.yaml", []byte("a:\n  tags: {x: 1}\n"))
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
