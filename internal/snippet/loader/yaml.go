package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/snipvault/internal/snippet"
)

// yamlRecord is the record shape inside YAML files. Tags stay a node so
// both a list and a comma-separated string are accepted.
type yamlRecord struct {
	Name     string    `yaml:"name"`
	Title    string    `yaml:"title"`
	Body     string    `yaml:"body"`
	Code     string    `yaml:"code"`
	Tags     yaml.Node `yaml:"tags"`
	Language string    `yaml:"language"`
}

func (r yamlRecord) record(source string) (record, error) {
	out := record{
		Name:     r.Name,
		Title:    r.Title,
		Body:     r.Body,
		Code:     r.Code,
		Language: r.Language,
	}

	tags := resolve(&r.Tags)
	switch {
	case tags.Kind == 0, isNull(tags):
	case tags.Kind == yaml.SequenceNode:
		if err := tags.Decode(&out.Tags); err != nil {
			return out, &ParseError{Path: source, Line: tags.Line, Column: tags.Column, Message: err.Error(), Err: err}
		}
	case tags.Kind == yaml.ScalarNode:
		out.Tags = strings.Split(tags.Value, ",")
	default:
		return out, &ParseError{
			Path: source, Line: tags.Line, Column: tags.Column,
			Message: "tags must be a list or a comma-separated string",
		}
	}
	return out, nil
}

// resolve follows alias nodes to the node they name.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// parseYAML walks the document node rather than decoding into a map so that
// entry order and repeated keys survive; duplicate handling is the store's
// job. A file holds a single document.
func parseYAML(source string, data []byte) ([]snippet.Entry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	// Only one document may hold snippets; empty trailing documents are
	// tolerated.
	for {
		var extra yaml.Node
		err := dec.Decode(&extra)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		if len(extra.Content) == 0 || isNull(resolve(extra.Content[0])) {
			continue
		}
		return nil, &ParseError{
			Path: source, Line: extra.Content[0].Line, Column: extra.Content[0].Column,
			Message: "multiple YAML documents; put every snippet in one document",
		}
	}

	// Empty document.
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolve(doc.Content[0])
	switch root.Kind {
	case yaml.MappingNode:
		return yamlMapping(source, root)
	case yaml.SequenceNode:
		return yamlSequence(source, root)
	case yaml.ScalarNode:
		if isNull(root) {
			return nil, nil
		}
	}

	return nil, &ParseError{
		Path:    source,
		Line:    root.Line,
		Column:  root.Column,
		Message: "top level must be a mapping of snippets or a list of snippets",
	}
}

func yamlMapping(source string, root *yaml.Node) ([]snippet.Entry, error) {
	entries := make([]snippet.Entry, 0, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := resolve(root.Content[i]), resolve(root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, &ParseError{
				Path: source, Line: key.Line, Column: key.Column,
				Message: "snippet name must be a scalar",
			}
		}

		switch {
		case isNull(value):
			entries = append(entries, snippet.Entry{Name: key.Value})
		case value.Kind == yaml.ScalarNode:
			entries = append(entries, snippet.Entry{Name: key.Value, Body: value.Value})
		case value.Kind == yaml.MappingNode:
			r, err := decodeRecord(source, value)
			if err != nil {
				return nil, fmt.Errorf("snippet %q: %w", key.Value, err)
			}
			r.Name = key.Value
			entries = append(entries, r.entry())
		default:
			return nil, &ParseError{
				Path: source, Line: value.Line, Column: value.Column,
				Message: fmt.Sprintf("snippet %q must be a string or a mapping", key.Value),
			}
		}
	}

	return entries, nil
}

func yamlSequence(source string, root *yaml.Node) ([]snippet.Entry, error) {
	entries := make([]snippet.Entry, 0, len(root.Content))

	for _, item := range root.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode {
			return nil, &ParseError{
				Path: source, Line: item.Line, Column: item.Column,
				Message: "list items must be snippet mappings",
			}
		}
		r, err := decodeRecord(source, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, r.entry())
	}

	return entries, nil
}

func decodeRecord(source string, n *yaml.Node) (record, error) {
	var yr yamlRecord
	if err := n.Decode(&yr); err != nil {
		return record{}, &ParseError{
			Path: source, Line: n.Line, Column: n.Column,
			Message: err.Error(), Err: err,
		}
	}
	return yr.record(source)
}

// EncodeYAML renders entries as a YAML mapping in order. Bodies spanning
// multiple lines use literal block style.
func EncodeYAML(entries []snippet.Entry) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range entries {
		value := &yaml.Node{Kind: yaml.MappingNode}

		if e.Language != "" {
			value.Content = append(value.Content, scalar("language"), scalar(e.Language))
		}
		if len(e.Tags) > 0 {
			tags := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, t := range e.Tags {
				tags.Content = append(tags.Content, scalar(t))
			}
			value.Content = append(value.Content, scalar("tags"), tags)
		}
		body := scalar(e.Body)
		if strings.Contains(e.Body, "\n") {
			body.Style = yaml.LiteralStyle
		}
		value.Content = append(value.Content, scalar("body"), body)

		root.Content = append(root.Content, scalar(e.Name), value)
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	return yaml.Marshal(doc)
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
