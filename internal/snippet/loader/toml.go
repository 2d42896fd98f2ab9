package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snipvault/internal/snippet"
)

// tomlFile is the TOML layout: one [[snippet]] table per entry.
type tomlFile struct {
	Snippet []tomlRecord `toml:"snippet"`
}

type tomlRecord struct {
	Name     string   `toml:"name"`
	Title    string   `toml:"title"`
	Body     string   `toml:"body"`
	Code     string   `toml:"code"`
	Tags     []string `toml:"tags"`
	Language string   `toml:"language"`
}

func parseTOML(source string, data []byte) ([]snippet.Entry, error) {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}

	if len(f.Snippet) == 0 {
		return nil, nil
	}

	entries := make([]snippet.Entry, 0, len(f.Snippet))
	for _, r := range f.Snippet {
		entries = append(entries, record(r).entry())
	}
	return entries, nil
}
