// Package terminal drives a tcell screen for the picker: it turns terminal
// key and resize events into input events and draws session frames.
package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipvault/internal/input"
)

// Terminal implements input.Source and picker.Renderer on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	theme  Theme
	closed bool
}

// New creates a terminal on the process's controlling TTY.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an existing screen, such as tcell's simulation screen.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, theme: DefaultTheme()}
}

// SetTheme replaces the drawing styles.
func (t *Terminal) SetTheme(theme Theme) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = theme
}

// Init takes over the terminal. Close must be called to restore it.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	return nil
}

// Close restores the terminal. Safe to call more than once.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

func (t *Terminal) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Rows returns how many list rows fit the current screen.
func (t *Terminal) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, h := t.screen.Size()
	return computeLayout(h).listRows
}

// NextEvent blocks until a key the picker understands is pressed, the
// screen is resized, ctx is done, or the terminal is closed. Keys without
// a mapping are skipped.
func (t *Terminal) NextEvent(ctx context.Context) (input.Event, error) {
	if err := ctx.Err(); err != nil {
		return input.Event{}, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Wake PollEvent; the error is dropped if the queue is full
			// or the screen already finished.
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(ctx))
		case <-done:
		}
	}()

	for {
		if t.isClosed() {
			return input.Event{}, input.ErrClosed
		}
		ev := t.screen.PollEvent()
		if ev == nil || t.isClosed() {
			return input.Event{}, input.ErrClosed
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			if out, ok := convertKey(e); ok {
				return out, nil
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			_, h := e.Size()
			t.mu.Unlock()
			return input.Resize(computeLayout(h).listRows), nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return input.Event{}, err
			}
		}
	}
}

// convertKey maps a tcell key to a picker event.
func convertKey(e *tcell.EventKey) (input.Event, bool) {
	switch e.Key() {
	case tcell.KeyRune:
		if e.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			return input.Event{}, false
		}
		return input.Character(e.Rune()), true
	case tcell.KeyEnter:
		return input.Key(input.KindConfirm), true
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlG:
		return input.Key(input.KindCancel), true
	case tcell.KeyUp, tcell.KeyCtrlP, tcell.KeyCtrlK:
		return input.Key(input.KindUp), true
	case tcell.KeyDown, tcell.KeyCtrlN, tcell.KeyCtrlJ:
		return input.Key(input.KindDown), true
	case tcell.KeyPgUp:
		return input.Key(input.KindPageUp), true
	case tcell.KeyPgDn:
		return input.Key(input.KindPageDown), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.Key(input.KindBackspace), true
	case tcell.KeyCtrlU:
		return input.Key(input.KindClear), true
	default:
		return input.Event{}, false
	}
}
