package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dshills/snipvault/internal/clipboard"
	"github.com/dshills/snipvault/internal/input"
	"github.com/dshills/snipvault/internal/picker"
	"github.com/dshills/snipvault/internal/session"
)

// PickOptions configures one interactive run.
type PickOptions struct {
	// Query is typed into the prompt before the first key.
	Query string
	// Print writes the confirmed body to Stdout instead of the clipboard,
	// once the terminal has been restored.
	Print  bool
	Stdout io.Writer
}

// Pick loads the store and runs the picker on a fresh screen. Cancelling
// ctx ends the run with ErrInterrupted.
func (a *App) Pick(ctx context.Context, opts PickOptions) (picker.Outcome, error) {
	store, err := a.LoadStore()
	if err != nil {
		return picker.Outcome{}, err
	}

	screen, err := a.newScreen()
	if err != nil {
		return picker.Outcome{}, NewOperationError("pick", "", err)
	}
	if err := screen.Init(); err != nil {
		return picker.Outcome{}, NewOperationError("pick", "", fmt.Errorf("initialising terminal: %w", err))
	}
	defer screen.Close()

	cb := a.clipboard
	var deferred *clipboard.Deferred
	if opts.Print {
		deferred = &clipboard.Deferred{}
		cb = deferred
	}

	var source input.Source = screen
	rows := screen.Rows()
	if fixed := a.cfg.UI.PageSize; fixed > 0 {
		rows = min(rows, fixed)
		source = capRows{Source: screen, max: fixed}
	}

	s := session.NewWithQuery(a.Engine(store), rows, opts.Query)
	ctl := picker.New(s, source, screen, cb, picker.WithLogger(a.logger))

	out, err := ctl.Run(ctx)
	// Restore the terminal before anything is written to stdout.
	screen.Close()
	if err != nil {
		return out, interrupted(err)
	}

	if deferred != nil && opts.Stdout != nil {
		if err := deferred.Flush(opts.Stdout); err != nil {
			return out, &picker.ClipboardError{Snippet: out.Snippet.Name, Err: err}
		}
	}
	return out, nil
}

// capRows limits resize events to a configured page size.
type capRows struct {
	input.Source
	max int
}

func (c capRows) NextEvent(ctx context.Context) (input.Event, error) {
	ev, err := c.Source.NextEvent(ctx)
	if err == nil && ev.Kind == input.KindResize {
		ev.Rows = min(ev.Rows, c.max)
	}
	return ev, err
}
