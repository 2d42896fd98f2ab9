// Package input defines the key events the picker understands and the
// Source interface that produces them.
//
// # Events
//
// The event set is closed: printable characters, Backspace, Clear, Up,
// Down, PageUp, PageDown, Confirm, Cancel and Resize. A terminal backend
// maps its own key codes onto these kinds and drops everything else, so
// the session never sees a key it has no transition for.
//
// # Sources
//
// A Source blocks in NextEvent until an event is available, the context is
// done, or the source is exhausted, in which case it returns ErrClosed.
// Script replays a fixed list of events and is what tests and
// non-interactive callers use:
//
//	src := input.NewScript(append(input.Text("greet"), input.Key(input.KindConfirm))...)
//	ev, err := src.NextEvent(ctx)
package input
