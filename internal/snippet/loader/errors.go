package loader

import (
	"fmt"
	"strings"
)

// ParseError reports a source that could not be decoded. It is shared by
// snippet files and the config file.
type ParseError struct {
	Path string
	// Line and Column are 1-based; 0 means unknown.
	Line   int
	Column int
	// Message is the human-readable cause.
	Message string
	// Err is the decoder's own error, if there was one.
	Err error
}

// Error renders the position compiler-style, as path:line:column.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
