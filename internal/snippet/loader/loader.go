// Package loader reads snippet entries from files.
//
// Three formats are understood, chosen by file extension:
//
//   - YAML (.yaml, .yml): a mapping of name to body, or name to a record
//     with body/tags/language, or a sequence of records.
//   - JSON (.json): the same shapes as YAML; records may also use the
//     title/code field names of older snippet files.
//   - TOML (.toml): an array of [[snippet]] tables.
//
// Entry order always follows the file, so the store's load order (and the
// match engine's tie-break) is the order a user wrote snippets in.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/snipvault/internal/snippet"
)

// Loader yields snippet entries from some backing source.
type Loader interface {
	// Load reads all entries. Failures are returned as *snippet.LoadError.
	Load() ([]snippet.Entry, error)
}

// Format identifies a snippet file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFor returns the format implied by path's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// FileSystem is what FileLoader reads through. testing/fstest.MapFS
// satisfies it.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// ReadFile reads the whole file at name.
func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// FileLoader loads entries from one file.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFileLoader creates a loader for path on the OS file system.
func NewFileLoader(path string) *FileLoader {
	return NewFileLoaderWithFS(OSFS{}, path)
}

// NewFileLoaderWithFS creates a loader reading path from fsys.
func NewFileLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{
		fs:     fsys,
		path:   path,
		format: FormatFor(path),
	}
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string {
	return l.path
}

// Load implements Loader. A missing file is reported as a *snippet.LoadError
// wrapping fs.ErrNotExist.
func (l *FileLoader) Load() ([]snippet.Entry, error) {
	if l.format == FormatUnknown {
		return nil, snippet.WithSource(
			fmt.Errorf("unsupported snippet file extension %q", filepath.Ext(l.path)), l.path)
	}

	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		return nil, snippet.WithSource(fmt.Errorf("reading snippet file: %w", err), l.path)
	}

	entries, err := Parse(l.format, l.path, data)
	if err != nil {
		return nil, snippet.WithSource(err, l.path)
	}
	return entries, nil
}

// ReaderLoader loads entries of a fixed format from an io.Reader.
type ReaderLoader struct {
	r      io.Reader
	format Format
}

// NewReaderLoader creates a loader that parses r as format.
func NewReaderLoader(r io.Reader, format Format) *ReaderLoader {
	return &ReaderLoader{r: r, format: format}
}

// Load implements Loader.
func (l *ReaderLoader) Load() ([]snippet.Entry, error) {
	data, err := io.ReadAll(l.r)
	if err != nil {
		return nil, snippet.WithSource(fmt.Errorf("reading snippets: %w", err), "<reader>")
	}
	entries, err := Parse(l.format, "<reader>", data)
	if err != nil {
		return nil, snippet.WithSource(err, "<reader>")
	}
	return entries, nil
}

// StaticLoader returns a fixed set of entries.
type StaticLoader []snippet.Entry

// Load implements Loader.
func (l StaticLoader) Load() ([]snippet.Entry, error) {
	out := make([]snippet.Entry, len(l))
	copy(out, l)
	return out, nil
}

// Parse decodes data in the given format.
func Parse(format Format, source string, data []byte) ([]snippet.Entry, error) {
	switch format {
	case FormatYAML:
		return parseYAML(source, data)
	case FormatJSON:
		return parseJSON(source, data)
	case FormatTOML:
		return parseTOML(source, data)
	default:
		return nil, fmt.Errorf("unsupported snippet format %s", format)
	}
}

// record is the field set shared by every format. Title and Code are the
// field names older JSON snippet files used.
type record struct {
	Name     string
	Title    string
	Body     string
	Code     string
	Tags     []string
	Language string
}

func (r record) entry() snippet.Entry {
	e := snippet.Entry{
		Name:     r.Name,
		Body:     r.Body,
		Tags:     r.Tags,
		Language: r.Language,
	}
	if e.Name == "" {
		e.Name = r.Title
	}
	if e.Body == "" {
		e.Body = r.Code
	}
	return e
}
