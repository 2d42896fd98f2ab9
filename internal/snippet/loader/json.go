package loader

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/snipvault/internal/snippet"
)

// parseJSON iterates the raw document with gjson, which visits object keys
// in file order and keeps repeated keys.
func parseJSON(source string, data []byte) ([]snippet.Entry, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}

	root := gjson.ParseBytes(data)
	var (
		entries []snippet.Entry
		err     error
	)

	switch {
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			switch {
			case value.Type == gjson.String:
				entries = append(entries, snippet.Entry{Name: key.String(), Body: value.String()})
			case value.IsObject():
				r := jsonRecord(value)
				r.Name = key.String()
				entries = append(entries, r.entry())
			default:
				err = &ParseError{
					Path:    source,
					Message: fmt.Sprintf("snippet %q must be a string or an object", key.String()),
				}
				return false
			}
			return true
		})
	case root.IsArray():
		i := 0
		root.ForEach(func(_, value gjson.Result) bool {
			if !value.IsObject() {
				err = &ParseError{
					Path:    source,
					Message: fmt.Sprintf("list item %d must be a snippet object", i),
				}
				return false
			}
			entries = append(entries, jsonRecord(value).entry())
			i++
			return true
		})
	case root.Type == gjson.Null:
		return nil, nil
	default:
		return nil, &ParseError{
			Path:    source,
			Message: "top level must be an object of snippets or an array of snippets",
		}
	}

	if err != nil {
		return nil, err
	}
	return entries, nil
}

// jsonRecord reads the record fields of an object. Tags may be an array or
// a comma-separated string.
func jsonRecord(v gjson.Result) record {
	r := record{
		Name:     v.Get("name").String(),
		Title:    v.Get("title").String(),
		Body:     v.Get("body").String(),
		Code:     v.Get("code").String(),
		Language: v.Get("language").String(),
	}

	tags := v.Get("tags")
	switch {
	case tags.IsArray():
		for _, t := range tags.Array() {
			r.Tags = append(r.Tags, t.String())
		}
	case tags.Type == gjson.String:
		r.Tags = strings.Split(tags.String(), ",")
	}

	return r
}

// EncodeJSON renders entries as a JSON array of title/code records, the
// layout older snippet files use. Entry and key order follow entries.
func EncodeJSON(entries []snippet.Entry) ([]byte, error) {
	out := []byte("[]")

	for _, e := range entries {
		obj, err := sjson.SetBytes([]byte("{}"), "title", e.Name)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", e.Name, err)
		}
		if e.Language != "" {
			if obj, err = sjson.SetBytes(obj, "language", e.Language); err != nil {
				return nil, fmt.Errorf("encoding %q: %w", e.Name, err)
			}
		}
		if len(e.Tags) > 0 {
			if obj, err = sjson.SetBytes(obj, "tags", e.Tags); err != nil {
				return nil, fmt.Errorf("encoding %q: %w", e.Name, err)
			}
		}
		if obj, err = sjson.SetBytes(obj, "code", e.Body); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", e.Name, err)
		}

		if out, err = sjson.SetRawBytes(out, "-1", obj); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", e.Name, err)
		}
	}

	return pretty.Pretty(out), nil
}
