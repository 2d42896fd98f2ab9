package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/snipvault/internal/snippet"
)

var (
	// ErrFileExists is returned by WriteDefaults when the target already exists.
	ErrFileExists = errors.New("snippet file already exists")

	// ErrNoEncoder is returned by WriteDefaults for formats it cannot write.
	ErrNoEncoder = errors.New("starter snippets can only be written as YAML or JSON")
)

// CanWrite reports whether WriteDefaults supports path's format.
func CanWrite(path string) bool {
	f := FormatFor(path)
	return f == FormatYAML || f == FormatJSON
}

// Defaults returns the starter snippet set.
func Defaults() []snippet.Entry {
	return []snippet.Entry{
		{
			Name:     "Extract tar.gz",
			Language: "bash",
			Body:     "tar -xzvf archive.tar.gz",
			Tags:     []string{"linux", "archive", "compression"},
		},
		{
			Name:     "Python HTTP server",
			Language: "bash",
			Body:     "python -m http.server 8000",
			Tags:     []string{"python", "server", "quick"},
		},
		{
			Name:     "Git undo last commit",
			Language: "bash",
			Body:     "git reset --soft HEAD~1",
			Tags:     []string{"git", "undo"},
		},
		{
			Name:     "Docker Compose template",
			Language: "yaml",
			Body: `version: '3.8'
services:
  app:
    build: .
    ports:
      - "8000:8000"
    volumes:
      - .:/app
    environment:
      - DEBUG=true`,
			Tags: []string{"docker", "template"},
		},
		{
			Name:     "Python virtualenv",
			Language: "bash",
			Body: `# Create
python -m venv venv

# Activate (Linux/Mac)
source venv/bin/activate

# Activate (Windows)
venv\Scripts\activate`,
			Tags: []string{"python", "venv", "environment"},
		},
		{
			Name:     "SQL select with JOIN",
			Language: "sql",
			Body: `SELECT
    u.name,
    o.order_date,
    o.total
FROM users u
LEFT JOIN orders o ON u.id = o.user_id
WHERE o.total > 100
ORDER BY o.order_date DESC;`,
			Tags: []string{"sql", "join", "query"},
		},
		{
			Name:     "Python timer decorator",
			Language: "python",
			Body: `import time
from functools import wraps

def timer(func):
    @wraps(func)
    def wrapper(*args, **kwargs):
        start = time.perf_counter()
        result = func(*args, **kwargs)
        elapsed = time.perf_counter() - start
        print(f"{func.__name__} took {elapsed:.4f}s")
        return result
    return wrapper`,
			Tags: []string{"python", "decorator", "performance"},
		},
		{
			Name:     "Find large files",
			Language: "bash",
			Body:     "find / -type f -size +100M 2>/dev/null | head -20",
			Tags:     []string{"linux", "find", "disk"},
		},
	}
}

// WriteDefaults writes the starter set to path as YAML or JSON, chosen by
// extension, creating parent directories. It refuses to replace an
// existing file.
func WriteDefaults(path string) error {
	var (
		data []byte
		err  error
	)
	switch FormatFor(path) {
	case FormatYAML:
		data, err = EncodeYAML(Defaults())
	case FormatJSON:
		data, err = EncodeJSON(Defaults())
	default:
		return fmt.Errorf("%w: %q", ErrNoEncoder, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding starter snippets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snippet directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("creating snippet file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing snippet file: %w", err)
	}
	return f.Close()
}
