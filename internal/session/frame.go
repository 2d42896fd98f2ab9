package session

import "github.com/dshills/snipvault/internal/match"

// Frame is a snapshot of everything a renderer needs to draw the session.
type Frame struct {
	// Query is the current query text.
	Query string

	// Visible is the window of results to draw, top to bottom.
	Visible []match.Result

	// Cursor is the highlighted index into the full ranked list.
	Cursor int

	// Offset is the ranked index of Visible[0].
	Offset int

	// Total is the size of the full ranked list.
	Total int

	// State is the session state when the frame was taken.
	State State
}

// Row returns the highlighted row within Visible, or -1 when the list is
// empty.
func (f Frame) Row() int {
	if len(f.Visible) == 0 {
		return -1
	}
	return f.Cursor - f.Offset
}

// Highlighted returns the result under the cursor, if any.
func (f Frame) Highlighted() (match.Result, bool) {
	row := f.Row()
	if row < 0 || row >= len(f.Visible) {
		return match.Result{}, false
	}
	return f.Visible[row], true
}

// Frame snapshots the session.
func (s *Session) Frame() Frame {
	return Frame{
		Query:   s.Query(),
		Visible: s.Visible(),
		Cursor:  s.cursor,
		Offset:  s.offset,
		Total:   len(s.ranked),
		State:   s.state,
	}
}
