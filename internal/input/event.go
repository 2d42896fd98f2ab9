package input

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by a Source that will produce no more events.
var ErrClosed = errors.New("input source closed")

// Kind identifies the type of an event.
type Kind int

const (
	// KindNone is the zero event. Sessions ignore it.
	KindNone Kind = iota
	// KindCharacter inserts Rune into the query.
	KindCharacter
	// KindBackspace deletes the last query rune.
	KindBackspace
	// KindClear empties the query.
	KindClear
	// KindUp moves the cursor up one row.
	KindUp
	// KindDown moves the cursor down one row.
	KindDown
	// KindPageUp moves the cursor up one page.
	KindPageUp
	// KindPageDown moves the cursor down one page.
	KindPageDown
	// KindConfirm selects the highlighted snippet.
	KindConfirm
	// KindCancel leaves without selecting.
	KindCancel
	// KindResize reports a new number of visible list rows.
	KindResize
)

var kindNames = map[Kind]string{
	KindNone:      "none",
	KindCharacter: "character",
	KindBackspace: "backspace",
	KindClear:     "clear",
	KindUp:        "up",
	KindDown:      "down",
	KindPageUp:    "pageup",
	KindPageDown:  "pagedown",
	KindConfirm:   "confirm",
	KindCancel:    "cancel",
	KindResize:    "resize",
}

// String returns the kind's name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is a single input event.
type Event struct {
	Kind Kind

	// Rune is set for KindCharacter.
	Rune rune

	// Rows is set for KindResize.
	Rows int
}

// String returns a compact description used in logs.
func (e Event) String() string {
	switch e.Kind {
	case KindCharacter:
		return fmt.Sprintf("character(%q)", e.Rune)
	case KindResize:
		return fmt.Sprintf("resize(%d)", e.Rows)
	default:
		return e.Kind.String()
	}
}

// Character returns a character event.
func Character(r rune) Event { return Event{Kind: KindCharacter, Rune: r} }

// Resize returns a resize event for rows visible list rows.
func Resize(rows int) Event { return Event{Kind: KindResize, Rows: rows} }

// Key returns an event with no payload.
func Key(k Kind) Event { return Event{Kind: k} }

// Source produces events. NextEvent blocks until an event is available,
// ctx is done, or the source closes.
type Source interface {
	NextEvent(ctx context.Context) (Event, error)
}

// Script is a Source that replays a fixed sequence and then reports
// ErrClosed. It is used for scripted sessions and tests.
type Script struct {
	events []Event
	pos    int
}

// NewScript creates a source replaying events in order.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

// Text returns character events for every rune of s.
func Text(s string) []Event {
	events := make([]Event, 0, len(s))
	for _, r := range s {
		events = append(events, Character(r))
	}
	return events
}

// NextEvent implements Source.
func (s *Script) NextEvent(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if s.pos >= len(s.events) {
		return Event{}, ErrClosed
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Remaining returns how many events have not been delivered.
func (s *Script) Remaining() int {
	return len(s.events) - s.pos
}
