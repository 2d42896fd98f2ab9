package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/snipvault/internal/picker"
	"github.com/dshills/snipvault/internal/snippet"
)

// Process exit codes.
const (
	// ExitOK covers both a confirmed and a cancelled selection.
	ExitOK = 0
	// ExitFailure covers usage errors and anything not listed below.
	ExitFailure = 1
	// ExitLoad means the snippet file could not be loaded.
	ExitLoad = 2
	// ExitClipboard means a snippet was confirmed but could not be copied.
	ExitClipboard = 3
)

// ErrInterrupted indicates the run was stopped by a signal.
var ErrInterrupted = errors.New("interrupted")

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "pick", "init")
	Target string // Target of the operation (e.g., file path, snippet name)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExitCode maps an error returned by App to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ce *picker.ClipboardError
	if errors.As(err, &ce) {
		return ExitClipboard
	}
	var le *snippet.LoadError
	if errors.As(err, &le) {
		return ExitLoad
	}
	return ExitFailure
}

// interrupted rewrites context cancellation into ErrInterrupted.
func interrupted(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return err
}
