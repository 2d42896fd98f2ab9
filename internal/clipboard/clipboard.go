// Package clipboard provides the sinks a confirmed snippet can be written to.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable indicates the platform has no usable clipboard utility.
var ErrUnavailable = errors.New("system clipboard unavailable (install xclip, xsel or wl-clipboard)")

// System writes to the platform clipboard.
type System struct{}

// Available reports whether a clipboard utility was found.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// Set copies text to the clipboard.
func (System) Set(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Get reads the current clipboard text.
func (System) Get() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// Deferred holds the text until Flush writes it to an io.Writer. It is used
// for --print, where output must wait until the terminal is restored.
type Deferred struct {
	mu   sync.Mutex
	text string
	set  bool
}

// Set stores text, replacing any earlier value.
func (d *Deferred) Set(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.set = true
	return nil
}

// Text returns the stored text and whether Set was called.
func (d *Deferred) Text() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, d.set
}

// Flush writes the stored text to w. It writes nothing if Set was never
// called.
func (d *Deferred) Flush(w io.Writer) error {
	text, ok := d.Text()
	if !ok {
		return nil
	}
	_, err := io.WriteString(w, text)
	return err
}
