// Package picker runs the interactive read-eval-render loop: it reads key
// events, feeds them to a session, redraws after each one, and writes the
// confirmed snippet to the clipboard.
//
// Side effects are limited to one Render call before the first event, one
// per processed event, and at most one Clipboard.Set per run.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/snipvault/internal/input"
	"github.com/dshills/snipvault/internal/session"
	"github.com/dshills/snipvault/internal/snippet"
)

// Renderer draws a session frame.
type Renderer interface {
	Render(frame session.Frame)
}

// Clipboard receives the confirmed snippet body.
type Clipboard interface {
	Set(text string) error
}

// Status is how a run ended.
type Status int

const (
	// StatusConfirmed means a snippet was selected and copied.
	StatusConfirmed Status = iota + 1
	// StatusCancelled means the user left without selecting.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome describes a finished run.
type Outcome struct {
	Status  Status
	Snippet snippet.Snippet
	// Events is the number of events processed.
	Events int
}

// ClipboardError reports a failed clipboard write after confirmation.
type ClipboardError struct {
	// Snippet is the name of the snippet that could not be copied.
	Snippet string
	Err     error
}

// Error implements the error interface.
func (e *ClipboardError) Error() string {
	return fmt.Sprintf("copy snippet %q to clipboard: %v", e.Snippet, e.Err)
}

// Unwrap returns the underlying error.
func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Controller owns a session for the duration of one run.
type Controller struct {
	session   *session.Session
	source    input.Source
	renderer  Renderer
	clipboard Clipboard
	logger    zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l.With().Str("component", "picker").Logger()
	}
}

// New creates a controller. The session must not be used by anyone else
// while the controller runs.
func New(s *session.Session, source input.Source, r Renderer, cb Clipboard, opts ...Option) *Controller {
	c := &Controller{
		session:   s,
		source:    source,
		renderer:  r,
		clipboard: cb,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the controlled session.
func (c *Controller) Session() *session.Session {
	return c.session
}

// Run processes events until the session reaches a terminal state or the
// source fails. On confirmation the snippet body is written to the
// clipboard; a failed write returns the outcome together with a
// *ClipboardError.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	var out Outcome

	if c.session.State().Terminal() {
		return out, errors.New("session already finished")
	}

	c.renderer.Render(c.session.Frame())

	for {
		ev, err := c.source.NextEvent(ctx)
		if err != nil {
			c.logger.Debug().Err(err).Int("events", out.Events).Msg("input ended")
			return out, fmt.Errorf("reading input: %w", err)
		}
		out.Events++

		changed := c.session.Handle(ev)
		c.logger.Debug().
			Stringer("event", ev).
			Bool("changed", changed).
			Str("state", c.session.State().String()).
			Int("results", len(c.session.Ranked())).
			Int("cursor", c.session.Cursor()).
			Msg("event")

		c.renderer.Render(c.session.Frame())

		switch c.session.State() {
		case session.Confirmed:
			return c.confirm(out)
		case session.Cancelled:
			out.Status = StatusCancelled
			c.logger.Info().Int("events", out.Events).Msg("selection cancelled")
			return out, nil
		}
	}
}

func (c *Controller) confirm(out Outcome) (Outcome, error) {
	sn, ok := c.session.Selected()
	if !ok {
		return out, fmt.Errorf("confirmed session has no selection: %w", snippet.ErrNotFound)
	}
	out.Status = StatusConfirmed
	out.Snippet = sn

	if err := c.clipboard.Set(sn.Body); err != nil {
		c.logger.Error().Err(err).Str("snippet", sn.Name).Msg("clipboard write failed")
		return out, &ClipboardError{Snippet: sn.Name, Err: err}
	}

	c.logger.Info().
		Str("snippet", sn.Name).
		Int("bytes", len(sn.Body)).
		Int("events", out.Events).
		Msg("snippet copied")
	return out, nil
}
