// Package session holds the mutable state of one interactive selection:
// the query, the ranked results for it, the cursor and the viewport.
//
// A Session is a state machine driven by input events. Every event kind is
// handled in every state; Confirmed and Cancelled are terminal and ignore
// all further input. A Session is not safe for concurrent use; it belongs
// to the controller that feeds it events.
package session

import (
	"github.com/dshills/snipvault/internal/input"
	"github.com/dshills/snipvault/internal/match"
	"github.com/dshills/snipvault/internal/snippet"
)

// State is the session's position in the selection state machine.
type State int

const (
	// Typing is the default state; the query is being edited.
	Typing State = iota
	// Navigating means the cursor was moved since the last query edit.
	Navigating
	// Confirmed means a snippet was selected. Terminal.
	Confirmed
	// Cancelled means the user left without selecting. Terminal.
	Cancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Typing:
		return "typing"
	case Navigating:
		return "navigating"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Confirmed || s == Cancelled
}

// Matcher ranks snippets for a query.
type Matcher interface {
	Match(query string) []match.Result
}

// DefaultPageSize is used until the first resize event.
const DefaultPageSize = 10

// Session is the interactive selection state.
type Session struct {
	matcher  Matcher
	query    []rune
	ranked   []match.Result
	cursor   int
	offset   int
	pageSize int
	state    State
	selected *snippet.Snippet
}

// New creates a session showing the results for an empty query.
func New(m Matcher, pageSize int) *Session {
	s := &Session{
		matcher:  m,
		pageSize: clampPage(pageSize),
	}
	s.rematch()
	return s
}

// NewWithQuery creates a session with an initial query already typed.
func NewWithQuery(m Matcher, pageSize int, query string) *Session {
	s := &Session{
		matcher:  m,
		query:    []rune(query),
		pageSize: clampPage(pageSize),
	}
	s.rematch()
	return s
}

// Handle applies ev and reports whether any visible state changed.
func (s *Session) Handle(ev input.Event) bool {
	if s.state.Terminal() {
		return false
	}

	switch ev.Kind {
	case input.KindCharacter:
		s.query = append(s.query, ev.Rune)
		s.rematch()
		s.state = Typing
		return true

	case input.KindBackspace:
		if len(s.query) == 0 {
			changed := s.state != Typing
			s.state = Typing
			return changed
		}
		s.query = s.query[:len(s.query)-1]
		s.rematch()
		s.state = Typing
		return true

	case input.KindClear:
		if len(s.query) == 0 {
			changed := s.state != Typing
			s.state = Typing
			return changed
		}
		s.query = s.query[:0]
		s.rematch()
		s.state = Typing
		return true

	case input.KindUp:
		return s.move(-1)
	case input.KindDown:
		return s.move(1)
	case input.KindPageUp:
		return s.move(-s.pageSize)
	case input.KindPageDown:
		return s.move(s.pageSize)

	case input.KindConfirm:
		if len(s.ranked) == 0 {
			return false
		}
		sn := s.ranked[s.cursor].Snippet
		s.selected = &sn
		s.state = Confirmed
		return true

	case input.KindCancel:
		s.state = Cancelled
		return true

	case input.KindResize:
		return s.SetPageSize(ev.Rows)
	}

	return false
}

// SetPageSize changes the number of visible rows, keeping the cursor in
// view. Sizes below one are treated as one.
func (s *Session) SetPageSize(rows int) bool {
	rows = clampPage(rows)
	if rows == s.pageSize {
		return false
	}
	s.pageSize = rows
	s.scrollToCursor()
	return true
}

// move shifts the cursor by delta rows, clamped to the ranked list.
func (s *Session) move(delta int) bool {
	prevCursor, prevOffset, prevState := s.cursor, s.offset, s.state
	s.state = Navigating

	if len(s.ranked) > 0 {
		s.cursor += delta
		if s.cursor < 0 {
			s.cursor = 0
		}
		if last := len(s.ranked) - 1; s.cursor > last {
			s.cursor = last
		}
		s.scrollToCursor()
	}

	return s.cursor != prevCursor || s.offset != prevOffset || s.state != prevState
}

// scrollToCursor moves the viewport the minimum distance needed to show
// the cursor.
func (s *Session) scrollToCursor() {
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+s.pageSize {
		s.offset = s.cursor - s.pageSize + 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// rematch recomputes results for the current query and resets the cursor.
func (s *Session) rematch() {
	s.ranked = s.matcher.Match(string(s.query))
	s.cursor = 0
	s.offset = 0
}

// Query returns the current query text.
func (s *Session) Query() string { return string(s.query) }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Cursor returns the highlighted index into Ranked.
func (s *Session) Cursor() int { return s.cursor }

// Offset returns the index of the first visible row.
func (s *Session) Offset() int { return s.offset }

// PageSize returns the number of visible rows.
func (s *Session) PageSize() int { return s.pageSize }

// Ranked returns the results for the current query.
func (s *Session) Ranked() []match.Result { return s.ranked }

// Visible returns the slice of Ranked currently in the viewport.
func (s *Session) Visible() []match.Result {
	end := s.offset + s.pageSize
	if end > len(s.ranked) {
		end = len(s.ranked)
	}
	if s.offset >= end {
		return nil
	}
	return s.ranked[s.offset:end]
}

// Highlighted returns the result under the cursor.
func (s *Session) Highlighted() (match.Result, bool) {
	if len(s.ranked) == 0 {
		return match.Result{}, false
	}
	return s.ranked[s.cursor], true
}

// Selected returns the confirmed snippet. It is only set in Confirmed.
func (s *Session) Selected() (snippet.Snippet, bool) {
	if s.selected == nil {
		return snippet.Snippet{}, false
	}
	return *s.selected, true
}

func clampPage(rows int) int {
	if rows < 1 {
		return 1
	}
	return rows
}
