package snippet

import (
	"fmt"
	"strings"
)

// Snippet is one stored fragment.
type Snippet struct {
	// Name uniquely identifies the snippet within its store.
	Name string

	// Body is the text copied on selection, stored verbatim.
	Body string

	// Tags are extra labels searched alongside the name.
	Tags []string

	// Language is an optional label such as "bash" or "sql".
	Language string
}

// HasTag reports whether the snippet carries tag (case-insensitive).
func (s Snippet) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Entry is a single record produced by a loader.
type Entry struct {
	Name     string
	Body     string
	Tags     []string
	Language string
}

// DuplicatePolicy selects how Load treats a repeated name.
type DuplicatePolicy int

const (
	// Reject fails the load on the first repeated name.
	Reject DuplicatePolicy = iota
	// Overwrite keeps the last body for a name at its first position.
	Overwrite
)

// String returns the policy's config spelling.
func (p DuplicatePolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	case Overwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParsePolicy parses "reject" or "overwrite".
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "overwrite":
		return Overwrite, nil
	default:
		return Reject, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// normalizeTags trims tags, drops blanks and removes case-insensitive
// repeats while keeping first-seen order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
