// Package interrupt provides cooperative cancellation for long-running scans.
// Engines poll Check between units of work instead of handling signals
// themselves.
package interrupt

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"fence/internal/core/errors"
)

// ErrInterrupted is the terminal outcome of a run stopped by the user. It is
// distinct from both success and policy violations.
var ErrInterrupted = errors.New(errors.CodeInterrupted, "interrupted")

// Setup returns a context canceled on SIGINT or SIGTERM. The returned stop
// function releases the signal handler.
func Setup() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Check returns ErrInterrupted once ctx is done, nil otherwise.
func Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrInterrupted
	default:
		return nil
	}
}

// Interrupted reports whether err is, or wraps, ErrInterrupted.
func Interrupted(err error) bool {
	return stderrors.Is(err, ErrInterrupted)
}
