package snippet

import (
	"errors"
	"fmt"
)

// Errors returned by store operations.
var (
	// ErrNotFound indicates no snippet has the requested name.
	ErrNotFound = errors.New("snippet not found")

	// ErrEmptyName indicates an entry without a usable name.
	ErrEmptyName = errors.New("snippet name is empty")

	// ErrUnknownPolicy indicates a duplicate policy string that cannot be parsed.
	ErrUnknownPolicy = errors.New("unknown duplicate policy")
)

// DuplicateNameError reports a name that appears more than once in a source
// loaded under the Reject policy.
type DuplicateNameError struct {
	// Name is the repeated snippet name.
	Name string
	// First is the entry index where the name was first seen.
	First int
	// Second is the entry index of the repeat.
	Second int
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate snippet name %q (entries %d and %d)", e.Name, e.First, e.Second)
}

// LoadError wraps any failure that prevents a store from being built:
// unreadable sources, malformed entries and rejected duplicates.
type LoadError struct {
	// Source names where the entries came from (file path, "<reader>").
	// Empty when the store was built from in-memory entries.
	Source string
	// Index is the offending entry index, or -1 when the failure is not
	// tied to a single entry.
	Index int
	// Name is the offending entry's name, if known.
	Name string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := "load snippets"
	if e.Source != "" {
		msg += " from " + e.Source
	}
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s: entry %d", msg, e.Index)
		if e.Name != "" {
			msg = fmt.Sprintf("%s (%q)", msg, e.Name)
		}
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// WithSource returns a copy of the error attributed to source.
// Errors that are not *LoadError are wrapped in a new one.
func WithSource(err error, source string) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		cp := *le
		cp.Source = source
		return &cp
	}
	return &LoadError{Source: source, Index: -1, Err: err}
}
